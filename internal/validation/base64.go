package validation

import (
	"encoding/base64"

	validation "github.com/jellydator/validation"
)

// KMSCiphertext validates that a string is standard base64 decoding to at
// least one byte, the form of a KMS-wrapped configuration value. Empty strings
// pass so Required decides on them.
var KMSCiphertext = validation.NewStringRuleWithError(
	func(s string) bool {
		decoded, err := base64.StdEncoding.DecodeString(s)
		return err == nil && len(decoded) > 0
	},
	validation.NewError("validation_kms_ciphertext", "must be base64-encoded KMS ciphertext"),
)
