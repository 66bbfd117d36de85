package secretbackend

import (
	"os"

	"github.com/pkg/errors"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

// k8sClientset builds a typed clientset, in-cluster if running inside a
// pod, otherwise from the ambient kubeconfig. The teacher's k8s.Controller
// goes through a dynamic client + REST mapper because it fetches arbitrary
// GVKs for health checks; cascade only ever reads Secrets/ConfigMaps, so a
// typed clientset is the simpler idiomatic fit (see DESIGN.md).
func k8sClientset() (*kubernetes.Clientset, error) {
	cfg, err := k8sRestConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get kubeconfig")
	}
	clt, err := kubernetes.NewForConfig(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Kubernetes client")
	}
	return clt, nil
}

func k8sRestConfig() (*rest.Config, error) {
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" && os.Getenv("KUBERNETES_SERVICE_PORT") != "" {
		return rest.InClusterConfig()
	}
	loadingRules := clientcmd.NewDefaultClientConfigLoadingRules()
	overrides := &clientcmd.ConfigOverrides{}
	return clientcmd.NewNonInteractiveDeferredLoadingClientConfig(loadingRules, overrides).ClientConfig()
}
