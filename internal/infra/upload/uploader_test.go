package upload

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memecoin/internal/domain/coin"
)

type fakeProvider struct {
	binaryCalls int
	jsonCalls   int
	lastJSON    []byte
	err         error
}

func (f *fakeProvider) PutBinary(_ context.Context, _ []byte, fileName, _ string) (string, error) {
	f.binaryCalls++
	if f.err != nil {
		return "", f.err
	}
	return "https://gw.example/ipfs/" + fileName, nil
}

func (f *fakeProvider) PutJSON(_ context.Context, doc []byte, fileName string) (string, error) {
	f.jsonCalls++
	f.lastJSON = doc
	if f.err != nil {
		return "", f.err
	}
	return "https://gw.example/ipfs/" + fileName, nil
}

func doc() coin.MetadataDocument {
	return coin.MetadataDocument{
		Name:        "DogeClone",
		Symbol:      "DOGE2",
		Description: "fun",
		Image:       "https://gw.example/ipfs/img",
		Properties: coin.MetadataProperties{
			Files:    []coin.MetadataFile{{URI: "https://gw.example/ipfs/img", Type: "image/png"}},
			Category: coin.MetadataCategory,
		},
	}
}

func TestUploadBinary(t *testing.T) {
	p := &fakeProvider{}
	u := New(p, "fake", 16)

	uri, err := u.UploadBinary(t.Context(), coin.AssetUploadRequest{Data: []byte("png"), FileName: "a.png", MimeType: "image/png"})
	require.NoError(t, err)
	assert.Equal(t, "https://gw.example/ipfs/a.png", uri)
	assert.Equal(t, 1, p.binaryCalls)
}

func TestUploadBinaryRejectsBeforeNetwork(t *testing.T) {
	p := &fakeProvider{}
	u := New(p, "fake", 16)

	for name, req := range map[string]coin.AssetUploadRequest{
		"oversized": {Data: make([]byte, 17), FileName: "a.png"},
		"empty":     {Data: nil, FileName: "a.png"},
		"no name":   {Data: []byte("x")},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := u.UploadBinary(t.Context(), req)
			assert.ErrorIs(t, err, coin.ErrValidation)
		})
	}
	assert.Zero(t, p.binaryCalls)

	_, err := u.UploadBinary(t.Context(), coin.AssetUploadRequest{Data: make([]byte, 16), FileName: "a.png"})
	assert.NoError(t, err, "payload at the ceiling is accepted")
}

func TestUploadBinaryProviderFailure(t *testing.T) {
	cause := errors.New("connection refused")
	u := New(&fakeProvider{err: cause}, "fake", 16)

	_, err := u.UploadBinary(t.Context(), coin.AssetUploadRequest{Data: []byte("x"), FileName: "a.png"})
	require.Error(t, err)
	assert.ErrorIs(t, err, coin.ErrUploadFailed)
	assert.ErrorIs(t, err, cause)
}

func TestUploadDocument(t *testing.T) {
	p := &fakeProvider{}
	u := New(p, "fake", 16)

	uri, err := u.UploadDocument(t.Context(), doc(), "DogeClone_metadata.json")
	require.NoError(t, err)
	assert.Equal(t, "https://gw.example/ipfs/DogeClone_metadata.json", uri)

	var got coin.MetadataDocument
	require.NoError(t, json.Unmarshal(p.lastJSON, &got))
	assert.Equal(t, doc(), got)
}

func TestUploadDocumentRejectsMalformed(t *testing.T) {
	p := &fakeProvider{}
	bad := doc()
	bad.Image = ""

	_, err := New(p, "fake", 16).UploadDocument(t.Context(), bad, "m.json")
	assert.ErrorIs(t, err, coin.ErrValidation)
	assert.Zero(t, p.jsonCalls)
}
