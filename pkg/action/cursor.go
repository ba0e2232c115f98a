package action

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aetherhq/control-plane/pkg/aethererr"
)

// EncodeCursor renders the literal keyset cursor format spec §4.2 mandates:
// "{rfc3339(created_at)}|{uuid}". This is not base64-encoded — it is the raw
// pipe-joined pair, matching the source's cursor construction exactly.
func EncodeCursor(createdAt time.Time, id uuid.UUID) string {
	return createdAt.UTC().Format(time.RFC3339Nano) + "|" + id.String()
}

// DecodeCursor parses a cursor produced by EncodeCursor. A malformed cursor
// is an InternalError per spec §4.2 ("rejected cursors surface as
// InternalError with a descriptive message") — this is a caller-facing
// infrastructure-shaped failure, not a validation error, because a cursor is
// never hand-constructed by a well-behaved client.
func DecodeCursor(cursor string) (time.Time, uuid.UUID, error) {
	parts := strings.SplitN(cursor, "|", 2)
	if len(parts) != 2 {
		return time.Time{}, uuid.Nil, aethererr.Internal(fmt.Errorf("malformed cursor %q", cursor), "invalid cursor")
	}
	createdAt, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return time.Time{}, uuid.Nil, aethererr.Internal(err, "invalid cursor timestamp")
	}
	id, err := uuid.Parse(parts[1])
	if err != nil {
		return time.Time{}, uuid.Nil, aethererr.Internal(err, "invalid cursor id")
	}
	return createdAt, id, nil
}
