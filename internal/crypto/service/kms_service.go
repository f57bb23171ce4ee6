package service

import (
	"context"
	"fmt"
	"net/url"
	"slices"

	"gocloud.dev/secrets"

	cryptoDomain "github.com/allisson/cmf/internal/crypto/domain"

	// Keeper drivers for every scheme in KMSSchemes.
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// KMSSchemes lists the key URI schemes OpenKeeper accepts. base64key holds the
// key inline and is meant for local development only.
var KMSSchemes = []string{"gcpkms", "awskms", "azurekeyvault", "hashivault", "base64key"}

// kmsService opens gocloud.dev/secrets keepers.
type kmsService struct{}

// NewKMSService creates a KMSService.
func NewKMSService() KMSService {
	return &kmsService{}
}

// OpenKeeper opens the keeper for keyURI. The caller must close it.
func (k *kmsService) OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error) {
	u, err := url.Parse(keyURI)
	if err != nil || !slices.Contains(KMSSchemes, u.Scheme) {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", cryptoDomain.ErrUnsupportedKMSScheme)
	}

	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	return keeper, nil
}
