package csrs

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/go-go-golems/geodetic-tools/pkg/builder"
	"github.com/go-go-golems/geodetic-tools/pkg/geoerr"
)

func pointCall() *builder.SinglePointCall {
	q := orderedmap.New[string, string]()
	q.Set("dataType", "json")
	q.Set("frame", "NAD83(CSRS)")
	q.Set("zone", "")
	return &builder.SinglePointCall{Tool: "GPSH", URLPath: "/CSRS/tools/GPSH/CGG2013a", Query: q}
}

func TestGetSendsOrderedQuery(t *testing.T) {
	var gotQuery, gotPath, gotID, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotQuery = r.URL.RawQuery
		gotID = r.Header.Get(RequestIDHeader)
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`{"X":"1.0"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", WithUserAgent("tests"))
	body, err := c.Get(context.Background(), pointCall())
	require.NoError(t, err)

	assert.Equal(t, `{"X":"1.0"}`, string(body))
	assert.Equal(t, "/CSRS/tools/GPSH/CGG2013a", gotPath)
	assert.Equal(t, "dataType=json&frame=NAD83%28CSRS%29&zone=", gotQuery)
	assert.Len(t, gotID, 36)
	assert.Equal(t, "tests", gotUA)
}

func TestGetNon2xxIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Get(context.Background(), pointCall())
	var te *geoerr.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusBadGateway, te.StatusCode)
	assert.Equal(t, geoerr.ExitTransport, geoerr.ExitCode(err))
}

func TestGetUnreachableIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url).Get(context.Background(), pointCall())
	var te *geoerr.TransportError
	require.ErrorAs(t, err, &te)
	assert.Zero(t, te.StatusCode)
	assert.Error(t, te.Err)
}

func TestUploadSendsMultipart(t *testing.T) {
	var fields map[string]string
	var fileName, fileBody, fileType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/CSRS/tools/INDIR/upload", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		fields = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			fields[k] = v[0]
		}
		fh := r.MultipartForm.File["file"][0]
		fileName = fh.Filename
		fileType = fh.Header.Get("Content-Type")
		f, err := fh.Open()
		require.NoError(t, err)
		b, _ := io.ReadAll(f)
		fileBody = string(b)
		_, _ = w.Write([]byte("PK"))
	}))
	defer srv.Close()

	f := orderedmap.New[string, string]()
	f.Set("lang", "en")
	f.Set("ellipsoid", "Clarke 1866")
	f.Set("3d", "on")
	call := &builder.BatchCall{
		Tool:    "INDIR",
		URLPath: "/CSRS/tools/INDIR/upload",
		Fields:  f,
		File:    builder.FilePart{FieldName: "file", FileName: "in.csv", Content: []byte("a,b\n"), MimeType: "text/plain"},
	}

	body, err := NewClient(srv.URL).Upload(context.Background(), call)
	require.NoError(t, err)
	assert.Equal(t, "PK", string(body))
	assert.Equal(t, map[string]string{"lang": "en", "ellipsoid": "Clarke 1866", "3d": "on"}, fields)
	assert.Equal(t, "in.csv", fileName)
	assert.Equal(t, "text/plain", fileType)
	assert.Equal(t, "a,b\n", fileBody)
}

func TestDefaultBaseURL(t *testing.T) {
	assert.Equal(t, DefaultBaseURL, NewClient("").BaseURL())
}
