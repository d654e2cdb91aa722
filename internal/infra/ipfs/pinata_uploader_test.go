package ipfs

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memecoin/internal/infra/httpclient"
)

const gateway = "https://gateway.pinata.cloud/ipfs/"

func TestPinataPutBinary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, pinFilePath, r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("pinata_api_key"))
		assert.Equal(t, "secret", r.Header.Get("pinata_secret_api_key"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		f, fh, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, []byte("png-bytes"), data)
		assert.Equal(t, "doge.png", fh.Filename)
		assert.Equal(t, "image/png", fh.Header.Get("Content-Type"))
		assert.JSONEq(t, `{"name":"doge.png"}`, r.FormValue("pinataMetadata"))

		_, _ = w.Write([]byte(`{"IpfsHash":"QmImage","PinSize":9,"Timestamp":"2024-01-01T00:00:00Z"}`))
	}))
	defer srv.Close()

	u := NewPinataUploader(httpclient.New(0), srv.URL, gateway, "key", "secret")
	uri, err := u.PutBinary(t.Context(), []byte("png-bytes"), "doge.png", "image/png")
	require.NoError(t, err)
	assert.Equal(t, gateway+"QmImage", uri)
}

func TestPinataPutJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, pinJSONPath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body struct {
			Content  map[string]any `json:"pinataContent"`
			Metadata struct {
				Name string `json:"name"`
			} `json:"pinataMetadata"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "DogeClone", body.Content["name"])
		assert.Equal(t, "DogeClone_metadata.json", body.Metadata.Name)

		_, _ = w.Write([]byte(`{"IpfsHash":"QmMeta"}`))
	}))
	defer srv.Close()

	u := NewPinataUploader(httpclient.New(0), srv.URL, "https://gw.example/ipfs", "key", "secret")
	uri, err := u.PutJSON(t.Context(), []byte(`{"name":"DogeClone"}`), "DogeClone_metadata.json")
	require.NoError(t, err)
	assert.Equal(t, "https://gw.example/ipfs/QmMeta", uri)
}

func TestPinataRejectedIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"busy"}`))
	}))
	defer srv.Close()

	u := NewPinataUploader(httpclient.New(0), srv.URL, gateway, "key", "secret")
	_, err := u.PutJSON(t.Context(), []byte(`{}`), "m.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=503")
	assert.Equal(t, int32(1), calls.Load())
}

func TestPinataEmptyHash(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"IpfsHash":""}`))
	}))
	defer srv.Close()

	u := NewPinataUploader(httpclient.New(0), srv.URL, gateway, "key", "secret")
	_, err := u.PutJSON(t.Context(), []byte(`{}`), "m.json")
	assert.ErrorIs(t, err, ErrPinataEmptyHash)
}

func TestPinataNotConfigured(t *testing.T) {
	u := NewPinataUploader(httpclient.New(0), "https://api.pinata.cloud", gateway, "", "")
	_, err := u.PutBinary(t.Context(), []byte("x"), "a.png", "image/png")
	assert.ErrorIs(t, err, ErrPinataNotConfigured)
}
