package archive

import "testing"

func TestParseGCSURI(t *testing.T) {
	tests := []struct {
		uri        string
		wantBucket string
		wantObject string
		wantErr    bool
	}{
		{"gs://widgets/splits/2026/08/28/abc.json", "widgets", "splits/2026/08/28/abc.json", false},
		{"gs://widgets", "", "", true},
		{"gs:///object", "", "", true},
		{"https://example.com/x", "", "", true},
		{"", "", "", true},
	}

	for _, tt := range tests {
		bucket, object, err := parseGCSURI(tt.uri)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseGCSURI(%q) error = %v, wantErr %v", tt.uri, err, tt.wantErr)
			continue
		}
		if bucket != tt.wantBucket || object != tt.wantObject {
			t.Errorf("parseGCSURI(%q) = (%q, %q), want (%q, %q)",
				tt.uri, bucket, object, tt.wantBucket, tt.wantObject)
		}
	}
}
