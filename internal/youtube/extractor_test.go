package youtube

import "testing"

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "short link",
			input: "https://youtu.be/dQw4w9WgXcQ",
			want:  "dQw4w9WgXcQ",
		},
		{
			name:  "watch query",
			input: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			want:  "dQw4w9WgXcQ",
		},
		{
			name:  "watch query with extra params",
			input: "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s",
			want:  "dQw4w9WgXcQ",
		},
		{
			name:  "v param not first",
			input: "https://www.youtube.com/watch?feature=share&v=dQw4w9WgXcQ",
			want:  "dQw4w9WgXcQ",
		},
		{
			name:  "embed path",
			input: "https://www.youtube.com/embed/dQw4w9WgXcQ",
			want:  "dQw4w9WgXcQ",
		},
		{
			name:  "legacy player path",
			input: "https://www.youtube.com/v/dQw4w9WgXcQ",
			want:  "dQw4w9WgXcQ",
		},
		{
			name:  "channel relative path",
			input: "https://www.youtube.com/u/w/dQw4w9WgXcQ",
			want:  "dQw4w9WgXcQ",
		},
		{
			name:  "short link with fragment",
			input: "https://youtu.be/dQw4w9WgXcQ#t=10",
			want:  "dQw4w9WgXcQ",
		},
		{
			name:  "not a video url",
			input: "not-a-video",
			want:  "",
		},
		{
			name:  "foreign domain",
			input: "https://vimeo.com/watch?v=dQw4w9WgXcQ",
			want:  "",
		},
		{
			name:  "id too short",
			input: "https://youtu.be/dQw4w9",
			want:  "",
		},
		{
			name:  "id too long",
			input: "https://youtu.be/dQw4w9WgXcQextra",
			want:  "",
		},
		{
			name:  "channel page without video",
			input: "https://www.youtube.com/@somechannel",
			want:  "",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractVideoID(tt.input)
			if got != tt.want {
				t.Errorf("ExtractVideoID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
