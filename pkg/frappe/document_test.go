package frappe

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDocumentClient(t *testing.T, handler http.HandlerFunc) *DocumentClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(&Config{BaseURL: server.URL})
	require.NoError(t, err)

	return NewDocumentClient(client)
}

func TestDocumentClient_Get(t *testing.T) {
	db := newTestDocumentClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/resource/Task/TASK-0001", r.URL.Path)
		assert.Empty(t, r.URL.RawQuery)

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"data":{"name":"TASK-0001","subject":"Write the report"}}`)
	})

	doc, err := db.Get(context.Background(), "Task", "TASK-0001")
	require.NoError(t, err)
	assert.Equal(t, "TASK-0001", doc.Name())
	assert.Equal(t, "Write the report", doc["subject"])
}

func TestDocumentClient_Get_NotFound(t *testing.T) {
	db := newTestDocumentClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"exc_type":"DoesNotExistError"}`)
	})

	_, err := db.Get(context.Background(), "Task", "nope")
	require.Error(t, err)

	var remoteErr *RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, 404, remoteErr.HTTPStatus)
	assert.Equal(t, "Not Found", remoteErr.HTTPStatusText)
	assert.Equal(t, "DoesNotExistError", remoteErr.Exception)
	assert.Equal(t, "DoesNotExistError", remoteErr.ExcType)
	assert.Equal(t, "There was an error while fetching the document.", remoteErr.Message)
}

func TestDocumentClient_List(t *testing.T) {
	db := newTestDocumentClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/resource/Task", r.URL.Path)

		q := r.URL.Query()
		assert.Equal(t, `["name","age"]`, q.Get("fields"))
		assert.Equal(t, `[["age",">",20]]`, q.Get("filters"))
		assert.Equal(t, "age asc", q.Get("order_by"))
		assert.Equal(t, "10", q.Get("limit"))
		assert.Equal(t, "true", q.Get("as_dict"))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"data":[{"name":"TASK-0001","age":31},{"name":"TASK-0002","age":25}]}`)
	})

	docs, err := db.List(context.Background(), "Task", &ListArgs{
		Fields:  []string{"name", "age"},
		Filters: []Filter{{Field: "age", Operator: ">", Value: 20}},
		OrderBy: &OrderBy{Field: "age"},
		Limit:   Int(10),
	})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "TASK-0001", docs[0].Name())
	assert.Equal(t, "TASK-0002", docs[1].Name())
}

func TestDocumentClient_List_NilArgs(t *testing.T) {
	db := newTestDocumentClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"data":[]}`)
	})

	docs, err := db.List(context.Background(), "Task", nil)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestDocumentClient_List_Failure(t *testing.T) {
	db := newTestDocumentClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		io.WriteString(w, `{"exc_type":"PermissionError"}`)
	})

	_, err := db.List(context.Background(), "Task", nil)

	var remoteErr *RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, 403, remoteErr.HTTPStatus)
	assert.Equal(t, "PermissionError", remoteErr.Exception)
	assert.Equal(t, "There was an error while fetching the documents.", remoteErr.Message)
}

func TestDocumentClient_Create(t *testing.T) {
	db := newTestDocumentClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/resource/Task", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		// Document fields must form the top-level body, not nest under a key.
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"subject":"X"}`, string(body))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"data":{"name":"TASK-0003","subject":"X"}}`)
	})

	doc, err := db.Create(context.Background(), "Task", Document{"subject": "X"})
	require.NoError(t, err)
	assert.Equal(t, "TASK-0003", doc.Name())
}

func TestDocumentClient_Create_ServerMessageWins(t *testing.T) {
	db := newTestDocumentClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		io.WriteString(w, `{"exc_type":"DuplicateEntryError","message":"Duplicate name Task TASK-0003"}`)
	})

	_, err := db.Create(context.Background(), "Task", Document{"subject": "X"})

	var remoteErr *RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, "Duplicate name Task TASK-0003", remoteErr.Message)
	assert.Equal(t, "DuplicateEntryError", remoteErr.Exception)
}

func TestDocumentClient_Update(t *testing.T) {
	db := newTestDocumentClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/resource/Task/TASK-0001", r.URL.Path)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"status":"Completed"}`, string(body))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"data":{"name":"TASK-0001","status":"Completed"}}`)
	})

	doc, err := db.Update(context.Background(), "Task", "TASK-0001", Document{"status": "Completed"})
	require.NoError(t, err)
	assert.Equal(t, "Completed", doc["status"])
}

func TestDocumentClient_Update_EmptyName(t *testing.T) {
	db := newTestDocumentClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/resource/Task/", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"data":{}}`)
	})

	_, err := db.Update(context.Background(), "Task", "", Document{"status": "Open"})
	require.NoError(t, err)
}

func TestDocumentClient_Update_DefaultMessage(t *testing.T) {
	db := newTestDocumentClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"exc_type":"ValidationError"}`)
	})

	_, err := db.Update(context.Background(), "Task", "TASK-0001", Document{"status": "?"})

	var remoteErr *RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, "There was an error while updating the document.", remoteErr.Message)
}

func TestDocumentClient_Delete_ReturnsRawBody(t *testing.T) {
	db := newTestDocumentClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/resource/Task/TASK-0001", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"message":"ok"}`)
	})

	body, err := db.Delete(context.Background(), "Task", "TASK-0001")
	require.NoError(t, err)
	assert.Equal(t, Document{"message": "ok"}, body)
}

func TestDocumentClient_Delete_Failure(t *testing.T) {
	db := newTestDocumentClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"exc_type":"DoesNotExistError"}`)
	})

	_, err := db.Delete(context.Background(), "Task", "nope")

	var remoteErr *RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, "There was an error while deleting the document.", remoteErr.Message)
}

func TestDocumentClient_Count(t *testing.T) {
	db := newTestDocumentClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/method/frappe.client.get_count", r.URL.Path)

		q := r.URL.Query()
		assert.Equal(t, "Task", q.Get("doctype"))
		assert.Equal(t, "[]", q.Get("filters"))
		assert.False(t, q.Has("cache"))
		assert.False(t, q.Has("debug"))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"message":41}`)
	})

	count, err := db.Count(context.Background(), "Task", nil, false, false)
	require.NoError(t, err)
	assert.Equal(t, int64(41), count)
}

func TestDocumentClient_Count_FiltersCacheDebug(t *testing.T) {
	db := newTestDocumentClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, `[["status","=","Open"]]`, q.Get("filters"))
		assert.Equal(t, "true", q.Get("cache"))
		assert.Equal(t, "true", q.Get("debug"))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"message":7}`)
	})

	count, err := db.Count(context.Background(), "Task",
		[]Filter{{Field: "status", Operator: "=", Value: "Open"}}, true, true)
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
}

func TestDocumentClient_Count_Failure(t *testing.T) {
	db := newTestDocumentClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"exception":"frappe.exceptions.ValidationError"}`)
	})

	_, err := db.Count(context.Background(), "Task", nil, false, false)

	var remoteErr *RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, 500, remoteErr.HTTPStatus)
	assert.Equal(t, "frappe.exceptions.ValidationError", remoteErr.Exception)
	assert.Equal(t, "There was an error while getting the count.", remoteErr.Message)
}

func TestDocumentClient_GetLast(t *testing.T) {
	var listQuery map[string][]string
	db := newTestDocumentClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/api/resource/Task":
			listQuery = r.URL.Query()
			io.WriteString(w, `{"data":[{"name":"TASK-0009"}]}`)
		case "/api/resource/Task/TASK-0009":
			io.WriteString(w, `{"data":{"name":"TASK-0009","subject":"Latest"}}`)
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})

	doc, err := db.GetLast(context.Background(), "Task", nil)
	require.NoError(t, err)
	assert.Equal(t, "Latest", doc["subject"])

	require.NotNil(t, listQuery)
	assert.Equal(t, `["name"]`, listQuery["fields"][0])
	assert.Equal(t, "1", listQuery["limit"][0])
	assert.Equal(t, "creation desc", listQuery["order_by"][0])
}

func TestDocumentClient_GetLast_Empty(t *testing.T) {
	db := newTestDocumentClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"data":[]}`)
	})

	doc, err := db.GetLast(context.Background(), "Task", nil)
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Empty(t, doc)
}

func TestDocumentClient_GetLast_MergesCallerArgs(t *testing.T) {
	db := newTestDocumentClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if r.URL.Path == "/api/resource/Task" {
			q := r.URL.Query()
			// Caller filters survive; default ordering applies when the
			// caller sets none; limit and fields are always forced.
			assert.Equal(t, `[["status","=","Open"]]`, q.Get("filters"))
			assert.Equal(t, "creation desc", q.Get("order_by"))
			assert.Equal(t, `["name"]`, q.Get("fields"))
			assert.Equal(t, "1", q.Get("limit"))
			io.WriteString(w, `{"data":[{"name":"TASK-0004"}]}`)
			return
		}
		io.WriteString(w, `{"data":{"name":"TASK-0004"}}`)
	})

	_, err := db.GetLast(context.Background(), "Task", &ListArgs{
		Fields:  []string{"name", "subject"},
		Filters: []Filter{{Field: "status", Operator: "=", Value: "Open"}},
		Limit:   Int(50),
	})
	require.NoError(t, err)
}

func TestDocumentClient_GetLast_CallerOrderReplacesDefault(t *testing.T) {
	db := newTestDocumentClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if r.URL.Path == "/api/resource/Task" {
			assert.Equal(t, "modified asc", r.URL.Query().Get("order_by"))
			io.WriteString(w, `{"data":[]}`)
			return
		}
	})

	_, err := db.GetLast(context.Background(), "Task", &ListArgs{
		OrderBy: &OrderBy{Field: "modified"},
	})
	require.NoError(t, err)
}

func TestDocumentClient_GetLast_ListFailureSkipsFetch(t *testing.T) {
	var fetchCalled bool
	db := newTestDocumentClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/resource/Task" {
			fetchCalled = true
		}
		w.WriteHeader(http.StatusForbidden)
		io.WriteString(w, `{"exc_type":"PermissionError"}`)
	})

	_, err := db.GetLast(context.Background(), "Task", nil)
	require.Error(t, err)
	assert.False(t, fetchCalled)

	var remoteErr *RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, "PermissionError", remoteErr.Exception)
}

func TestDocumentClient_ErrorBodyExtraFields(t *testing.T) {
	db := newTestDocumentClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusExpectationFailed)
		io.WriteString(w, `{"exception":"frappe.exceptions.LinkValidationError","exc_type":"LinkValidationError","_server_messages":"[]"}`)
	})

	_, err := db.Get(context.Background(), "Task", "TASK-0001")

	var remoteErr *RemoteError
	require.ErrorAs(t, err, &remoteErr)
	// exception wins over exc_type, and unrecognized keys are kept.
	assert.Equal(t, "frappe.exceptions.LinkValidationError", remoteErr.Exception)
	assert.Equal(t, "LinkValidationError", remoteErr.ExcType)
	assert.Equal(t, "[]", remoteErr.Fields["_server_messages"])
}

func TestDocumentClient_NonJSONErrorBody(t *testing.T) {
	db := newTestDocumentClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, `<html>bad gateway</html>`)
	})

	_, err := db.Get(context.Background(), "Task", "TASK-0001")

	var remoteErr *RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, 502, remoteErr.HTTPStatus)
	assert.Equal(t, "", remoteErr.Exception)
	assert.Nil(t, remoteErr.Fields)
}

func TestDocumentClient_ConcurrentCalls(t *testing.T) {
	db := newTestDocumentClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"name": r.URL.Path},
		})
	})

	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		go func() {
			_, err := db.Get(context.Background(), "Task", "TASK-0001")
			errs <- err
		}()
	}
	for i := 0; i < 10; i++ {
		assert.NoError(t, <-errs)
	}
}

func TestDocumentClient_ContextCancellation(t *testing.T) {
	db := newTestDocumentClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := db.Get(ctx, "Task", "TASK-0001")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled) || errors.As(err, new(*RemoteError)))
}
