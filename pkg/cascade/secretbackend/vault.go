package secretbackend

import (
	"context"
	"strings"

	vault "github.com/hashicorp/vault/api"
	"github.com/pkg/errors"
)

// Vault resolves "vault:<mount>/<path>#<key>" refs against a KV v2 mount,
// grounded on the teacher's credentials.Vault adapter (narrowed to kv-v2,
// the engine cascade's deployments actually run).
type Vault struct {
	client *vault.Client
}

func (v *Vault) Scheme() string { return "vault" }

func (v *Vault) Resolve(ctx context.Context, ref Ref) (string, error) {
	if v.client == nil {
		client, err := vault.NewClient(nil)
		if err != nil {
			return "", errors.Wrap(err, "failed to create the Vault client")
		}
		v.client = client
	}

	mount, path, ok := strings.Cut(ref.Path, "/")
	if !ok {
		return "", errors.Errorf("vault ref %q must be <mount>/<path>", ref.Path)
	}

	secret, err := v.client.KVv2(mount).Get(ctx, path)
	if err != nil {
		return "", errors.Wrap(err, "failed to get Vault kv-v2 secret")
	}
	if secret == nil || secret.Data == nil {
		return "", nil
	}
	if ref.Key == "" {
		return "", errors.New("vault ref requires a #<key> suffix")
	}
	return stringField(secret.Data, ref.Key), nil
}
