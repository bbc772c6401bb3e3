package service

import (
	"fmt"

	"docman/internal/model"
)

// DeriveKey builds the blob key of one document version:
// "{environment}/{lenderID}-{normalizedName}_{major}_{minor}".
func DeriveKey(environment, lenderID, name string, major, minor int) string {
	return fmt.Sprintf("%s/%s-%s_%d_%d", environment, lenderID, model.NormalizeSlotName(name), major, minor)
}
