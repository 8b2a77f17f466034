package langutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Muhannad-Khaled/Ailigent/internal/shared/langutil"
)

func TestDetect(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{"english sentence", "what is my leave balance?", langutil.English},
		{"arabic sentence", "ما هو رصيد إجازاتي؟", langutil.Arabic},
		{"mostly arabic with latin word", "أرسل لي payslip من فضلك", langutil.Arabic},
		{"mostly english with one arabic word", "please show the مهام board for this sprint", langutil.English},
		{"digits only", "123456", langutil.English},
		{"empty", "", langutil.English},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, langutil.Detect(tc.text))
		})
	}
}
