package tax

import (
	"github.com/dukerupert/brokkr/internal/domain"
)

// unknownRegion creates the rejection error for an unmapped jurisdiction
// code. Applying 0% tax silently is never acceptable: the invoice would
// under-collect and the books would not reconcile.
func unknownRegion(op, code string) error {
	return domain.Errorf(domain.EINVALID, op, "unknown tax region: %s", code)
}
