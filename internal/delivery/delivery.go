package delivery

import (
	"os"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog/log"
)

// CopyToClipboard places text on the system clipboard. Failure to
// deliver is recoverable by the caller, so it is reported as a boolean,
// never escalated.
func CopyToClipboard(text string) bool {
	if err := clipboard.WriteAll(text); err != nil {
		log.Warn().Err(err).Msg("clipboard delivery failed")
		return false
	}
	return true
}

// WriteFile delivers text to a file, replacing any previous content.
func WriteFile(path, text string) error {
	return os.WriteFile(path, []byte(text), 0o644)
}
