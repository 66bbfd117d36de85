package secretbackend

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

// K8sSecret resolves "k8s-secret:<namespace>/<name>#<key>" refs against a
// core/v1 Secret, grounded on the teacher's credentials.K8sSecret adapter.
type K8sSecret struct {
	client *kubernetes.Clientset
}

func (k *K8sSecret) Scheme() string { return "k8s-secret" }

func (k *K8sSecret) Resolve(ctx context.Context, ref Ref) (string, error) {
	if k.client == nil {
		clt, err := k8sClientset()
		if err != nil {
			return "", err
		}
		k.client = clt
	}

	namespace, name, ok := strings.Cut(ref.Path, "/")
	if !ok {
		return "", errors.Errorf("k8s-secret ref %q must be <namespace>/<name>", ref.Path)
	}
	if ref.Key == "" {
		return "", errors.New("k8s-secret ref requires a #<key> suffix")
	}

	secret, err := k.client.CoreV1().Secrets(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return "", errors.Wrap(err, "failed to get K8s secret")
	}
	return string(secret.Data[ref.Key]), nil
}
