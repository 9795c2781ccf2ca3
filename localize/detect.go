package localize

import (
	"log"
	"strings"

	"github.com/Xuanwo/go-locale"
)

// DetectLang returns the base language of the user's locale ("ja", "en"...),
// or "en" if it can't be figured out.
func DetectLang() string {
	tag, err := locale.Detect()
	if err != nil {
		log.Printf("Could not detect locale: %v", err)
		return "en"
	}

	base, _ := tag.Base()
	lang := strings.ToLower(base.String())
	if lang == "" || lang == "und" {
		return "en"
	}
	return lang
}
