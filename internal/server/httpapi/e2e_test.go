package httpapi

import (
	"bytes"
	"crypto/rand"
	"io"
	"net/http"
	"testing"
)

// TestEndToEndSingleUpload walks the full flow of a share: create,
// authenticate both roles, upload a 2 MiB file, list it, download it and
// compare bytes.
func TestEndToEndSingleUpload(t *testing.T) {
	ts := newTestServer(t)
	id, uploaderToken, viewerToken := createShare(t, ts)

	payload := make([]byte, 2*1024*1024)
	if _, err := rand.Read(payload); err != nil {
		t.Fatalf("rand.Read: %v", err)
	}

	status, body := doJSON(t, http.MethodPost, ts.URL+"/shares/"+id+"/upload-url", uploaderToken,
		map[string]any{"fileName": "big.bin", "contentType": "application/octet-stream", "size": len(payload)})
	if status != http.StatusOK {
		t.Fatalf("upload-url: status %d body %v", status, body)
	}
	fileID := body["fileId"].(string)

	resp := putBytes(t, ts.URL+body["url"].(string), payload)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("upload: status = %d", resp.StatusCode)
	}

	status, body = doJSON(t, http.MethodPost, ts.URL+"/shares/"+id+"/upload-complete", uploaderToken,
		map[string]any{"fileId": fileID, "size": len(payload)})
	if status != http.StatusOK {
		t.Fatalf("upload-complete: status %d body %v", status, body)
	}

	status, body = doJSON(t, http.MethodGet, ts.URL+"/shares/"+id+"/files", viewerToken, nil)
	if status != http.StatusOK {
		t.Fatalf("list: status %d body %v", status, body)
	}
	list := body["files"].([]any)
	if len(list) != 1 {
		t.Fatalf("expected one file, got %v", list)
	}
	entry := list[0].(map[string]any)
	if entry["name"] != "big.bin" {
		t.Errorf("name = %v", entry["name"])
	}
	if int64(entry["size"].(float64)) != int64(len(payload)) {
		t.Errorf("size = %v, want %d", entry["size"], len(payload))
	}

	status, body = doJSON(t, http.MethodGet, ts.URL+"/shares/"+id+"/download-url/"+fileID, viewerToken, nil)
	if status != http.StatusOK {
		t.Fatalf("download-url: status %d body %v", status, body)
	}

	dlResp, err := http.Get(ts.URL + body["url"].(string))
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	defer dlResp.Body.Close()
	got, err := io.ReadAll(dlResp.Body)
	if err != nil {
		t.Fatalf("read download: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Error("downloaded bytes differ from uploaded bytes")
	}
}

// TestEndToEndMultipart uploads three parts out of order and verifies
// the assembled object follows part-number order.
func TestEndToEndMultipart(t *testing.T) {
	ts := newTestServer(t)
	id, uploaderToken, viewerToken := createShare(t, ts)

	parts := map[int][]byte{
		1: bytes.Repeat([]byte{'a'}, 1024),
		2: bytes.Repeat([]byte{'b'}, 1024),
		3: bytes.Repeat([]byte{'c'}, 512),
	}

	status, body := doJSON(t, http.MethodPost, ts.URL+"/shares/"+id+"/multipart/init", uploaderToken,
		map[string]string{"fileName": "big.bin", "contentType": "application/octet-stream"})
	if status != http.StatusOK {
		t.Fatalf("multipart/init: status %d body %v", status, body)
	}
	fileID := body["fileId"].(string)
	uploadID := body["uploadId"].(string)

	for _, n := range []int{2, 1, 3} {
		status, body = doJSON(t, http.MethodPost, ts.URL+"/shares/"+id+"/multipart/"+uploadID+"/part-url", uploaderToken,
			map[string]int{"partNumber": n})
		if status != http.StatusOK {
			t.Fatalf("part-url %d: status %d body %v", n, status, body)
		}
		resp := putBytes(t, ts.URL+body["url"].(string), parts[n])
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("part %d upload: status = %d", n, resp.StatusCode)
		}
	}

	status, body = doJSON(t, http.MethodPost, ts.URL+"/shares/"+id+"/multipart/"+uploadID+"/complete", uploaderToken,
		map[string]any{"parts": []int{2, 1, 3}})
	if status != http.StatusOK {
		t.Fatalf("multipart/complete: status %d body %v", status, body)
	}
	wantSize := int64(len(parts[1]) + len(parts[2]) + len(parts[3]))
	if int64(body["size"].(float64)) != wantSize {
		t.Errorf("size = %v, want %d", body["size"], wantSize)
	}

	status, body = doJSON(t, http.MethodGet, ts.URL+"/shares/"+id+"/download-url/"+fileID, viewerToken, nil)
	if status != http.StatusOK {
		t.Fatalf("download-url: status %d body %v", status, body)
	}

	resp, err := http.Get(ts.URL + body["url"].(string))
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	defer resp.Body.Close()
	got, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read download: %v", err)
	}

	want := append(append(append([]byte{}, parts[1]...), parts[2]...), parts[3]...)
	if !bytes.Equal(got, want) {
		t.Error("assembled object not in part order")
	}
}
