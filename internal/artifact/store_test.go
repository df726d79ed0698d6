package artifact

import (
	"errors"
	"testing"
)

func TestParseObjectPath(t *testing.T) {
	tests := []struct {
		name    string
		fileURL string
		want    string
		wantErr bool
	}{{
		name:    "download url",
		fileURL: "https://firebasestorage.googleapis.com/v0/b/deckdrop-prod/o/presentations%2Fabc123.pdf?alt=media&token=xyz",
		want:    "presentations/abc123.pdf",
	}, {
		name:    "nested path",
		fileURL: "https://storage.example.com/v0/b/bucket/o/a%2Fb%2Fc.pptx",
		want:    "a/b/c.pptx",
	}, {
		name:    "missing object segment",
		fileURL: "https://storage.example.com/v0/b/bucket/",
		wantErr: true,
	}, {
		name:    "empty",
		fileURL: "",
		wantErr: true,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseObjectPath(tt.fileURL)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedURL) {
					t.Fatalf("expected ErrMalformedURL, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
