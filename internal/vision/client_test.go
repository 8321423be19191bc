package vision

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDetectFaces_ParsesFaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			http.Error(w, "expected multipart", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"faces_count": 2,
			"faces": [
				{"face_index": 0, "bbox": [10, 20, 110, 120], "embedding": [0.1, 0.2], "det_score": 0.99},
				{"face_index": 1, "bbox": [200, 20, 300, 120], "embedding": [0.3, 0.4], "det_score": 0.87}
			],
			"model": "test-model"
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	faces, err := client.DetectFaces(context.Background(), []byte{0xFF, 0xD8, 0xFF, 0x00, 0x01, 0x02, 0x03, 0x04})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(faces) != 2 {
		t.Fatalf("expected 2 faces, got %d", len(faces))
	}
	if faces[0].FaceIndex != 0 || faces[1].FaceIndex != 1 {
		t.Errorf("expected faces in detection order, got indexes %d, %d", faces[0].FaceIndex, faces[1].FaceIndex)
	}
	if len(faces[0].Descriptor) != 2 || faces[0].Descriptor[0] != 0.1 {
		t.Errorf("unexpected descriptor for face 0: %v", faces[0].Descriptor)
	}
	if faces[1].DetScore != 0.87 {
		t.Errorf("expected det_score 0.87, got %f", faces[1].DetScore)
	}
}

func TestDetectFaces_NoFaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"faces_count": 0, "faces": [], "model": "test-model"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	faces, err := client.DetectFaces(context.Background(), []byte("not really an image"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(faces) != 0 {
		t.Errorf("expected zero faces, got %d", len(faces))
	}
}

func TestDetectFaces_ServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.DetectFaces(context.Background(), []byte("img"))
	if err == nil {
		t.Fatal("expected error for non-200 response")
	}
	if !strings.Contains(err.Error(), "status 500") {
		t.Errorf("expected status in error, got: %v", err)
	}
}

func TestDetectMIMEType(t *testing.T) {
	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46}
	if got := detectMIMEType(jpeg); got != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %s", got)
	}

	png := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	if got := detectMIMEType(png); got != "image/png" {
		t.Errorf("expected image/png, got %s", got)
	}

	if got := detectMIMEType([]byte("abcdefgh")); got != "application/octet-stream" {
		t.Errorf("expected octet-stream fallback, got %s", got)
	}
}
