package manager

import (
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/signalmesh/dagengine/pkg/schema"
)

// cacheKey identifies a compiled blueprint: the business whose block
// library the schema was compiled against, plus the canonicalized
// schema's content hash. Two schemas that are byte-for-byte identical up
// to key order and nothing else collapse to the same key (§4.5.1).
func cacheKey(businessID string, doc *schema.Schema) (string, error) {
	canon, err := schema.Canonical(doc)
	if err != nil {
		return "", err
	}
	h := xxhash.New()
	_, _ = h.WriteString(businessID)
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(canon)
	return businessID + ":" + strconv.FormatUint(h.Sum64(), 16), nil
}
