package extract

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "fenced with language tag",
			in:   "```json\n{\"patient_id\": \"12\"}\n```",
			want: `{"patient_id": "12"}`,
		},
		{
			name: "fenced without tag",
			in:   "```\n{\"patient_id\": \"12\"}\n```",
			want: `{"patient_id": "12"}`,
		},
		{
			name: "unfenced",
			in:   `{"patient_id": "12"}`,
			want: `{"patient_id": "12"}`,
		},
		{
			name: "surrounded by prose",
			in:   "Here is the result:\n{\"patient_name\": \"Bruno\"}\nLet me know if you need more.",
			want: `{"patient_name": "Bruno"}`,
		},
		{
			name: "nested object",
			in:   `{"a": {"b": 1}, "c": "d"}`,
			want: `{"a": {"b": 1}, "c": "d"}`,
		},
		{
			name: "braces inside string values",
			in:   `{"notes_for_doctor": "use {caution}"}`,
			want: `{"notes_for_doctor": "use {caution}"}`,
		},
		{
			name: "windows newlines",
			in:   "```json\r\n{\"patient_id\": 3}\r\n```",
			want: `{"patient_id": 3}`,
		},
		{
			name: "no object at all",
			in:   "sorry, I could not transcribe that",
			want: "",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.in); got != tc.want {
				t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
