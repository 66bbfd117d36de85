package secretbackend

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

// K8sConfigMap resolves "k8s-cm:<namespace>/<name>#<key>" refs against a
// core/v1 ConfigMap, grounded on the teacher's credentials.K8sCM adapter.
type K8sConfigMap struct {
	client *kubernetes.Clientset
}

func (k *K8sConfigMap) Scheme() string { return "k8s-cm" }

func (k *K8sConfigMap) Resolve(ctx context.Context, ref Ref) (string, error) {
	if k.client == nil {
		clt, err := k8sClientset()
		if err != nil {
			return "", err
		}
		k.client = clt
	}

	namespace, name, ok := strings.Cut(ref.Path, "/")
	if !ok {
		return "", errors.Errorf("k8s-cm ref %q must be <namespace>/<name>", ref.Path)
	}
	if ref.Key == "" {
		return "", errors.New("k8s-cm ref requires a #<key> suffix")
	}

	cm, err := k.client.CoreV1().ConfigMaps(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return "", errors.Wrap(err, "failed to get K8s config map")
	}
	return cm.Data[ref.Key], nil
}
