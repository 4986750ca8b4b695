package crm

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Id prefixes.
const (
	clientPrefix  = "client"
	productPrefix = "prod"
)

func newEntityID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// importStampLocked returns a batch timestamp strictly later than the
// previous batch's, so time+ordinal ids never repeat across imports that
// land in the same millisecond. Callers hold s.mu.
func (s *Store) importStampLocked() time.Time {
	at := s.now().Truncate(time.Millisecond)
	if !at.After(s.lastImport) {
		at = s.lastImport.Add(time.Millisecond)
	}
	s.lastImport = at
	return at
}

func importID(prefix string, batch time.Time, ordinal int) string {
	return fmt.Sprintf("%s-csv-%d-%d", prefix, batch.UnixMilli(), ordinal)
}
