package document

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// generateID returns a document id of the form doc_<unix_seconds>_<8-hex>,
// matching the grammar validate.DocumentID checks.
func generateID(now time.Time) (string, error) {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("generate document id: %w", err)
	}
	return fmt.Sprintf("doc_%d_%s", now.Unix(), hex.EncodeToString(b[:])), nil
}
