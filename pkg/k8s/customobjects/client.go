// Package customobjects creates, reads and deletes namespaced custom objects
// identified by group, version, plural, namespace and name.
//
// Creation and reads go through the dynamic client. Deletion is issued as a raw
// REST request because the dynamic client discards the response body, and
// callers need the returned Status to tell a completed delete from an
// accepted one.
package customobjects

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/rest"
)

// Interface is the custom objects API used by the provisioner.
type Interface interface {
	// Create submits obj to the namespaced collection of gvr.
	Create(ctx context.Context, gvr schema.GroupVersionResource, namespace string, obj *unstructured.Unstructured) (*unstructured.Unstructured, error)

	// Get reads a single object.
	Get(ctx context.Context, gvr schema.GroupVersionResource, namespace, name string) (*unstructured.Unstructured, error)

	// Delete removes a single object and returns the decoded response body.
	Delete(ctx context.Context, gvr schema.GroupVersionResource, namespace, name string, opts DeleteOptions) (map[string]any, error)
}

// DeleteOptions controls a delete request.
type DeleteOptions struct {
	PropagationPolicy  metav1.DeletionPropagation
	GracePeriodSeconds *int64
	// OrphanDependents is sent as a query parameter. The API server rejects it
	// alongside a propagation policy in the request body.
	OrphanDependents *bool
}

// Client implements Interface on top of client-go.
type Client struct {
	dynamic dynamic.Interface
	rest    rest.Interface
}

var _ Interface = &Client{}

// New returns a Client using the given dynamic and REST clients.
func New(dyn dynamic.Interface, restClient rest.Interface) *Client {
	return &Client{
		dynamic: dyn,
		rest:    restClient,
	}
}

// NewForConfig builds a Client for the cluster described by cfg.
func NewForConfig(cfg *rest.Config) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("rest config is required")
	}

	dyn, err := dynamic.NewForConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create dynamic client: %w", err)
	}

	restCfg := rest.CopyConfig(cfg)
	restCfg.ContentType = runtime.ContentTypeJSON
	restCfg.AcceptContentTypes = runtime.ContentTypeJSON
	restCfg.NegotiatedSerializer = scheme.Codecs.WithoutConversion()
	if restCfg.UserAgent == "" {
		restCfg.UserAgent = rest.DefaultKubernetesUserAgent()
	}

	restClient, err := rest.UnversionedRESTClientFor(restCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create rest client: %w", err)
	}

	return New(dyn, restClient), nil
}

// Create implements Interface.
func (c *Client) Create(ctx context.Context, gvr schema.GroupVersionResource, namespace string, obj *unstructured.Unstructured) (*unstructured.Unstructured, error) {
	return c.dynamic.Resource(gvr).Namespace(namespace).Create(ctx, obj, metav1.CreateOptions{})
}

// Get implements Interface.
func (c *Client) Get(ctx context.Context, gvr schema.GroupVersionResource, namespace, name string) (*unstructured.Unstructured, error) {
	return c.dynamic.Resource(gvr).Namespace(namespace).Get(ctx, name, metav1.GetOptions{})
}

// Delete implements Interface.
func (c *Client) Delete(ctx context.Context, gvr schema.GroupVersionResource, namespace, name string, opts DeleteOptions) (map[string]any, error) {
	body := metav1.DeleteOptions{
		TypeMeta: metav1.TypeMeta{
			APIVersion: "v1",
			Kind:       "DeleteOptions",
		},
		GracePeriodSeconds: opts.GracePeriodSeconds,
	}
	if opts.PropagationPolicy != "" {
		policy := opts.PropagationPolicy
		body.PropagationPolicy = &policy
	}

	data, err := json.Marshal(&body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode delete options: %w", err)
	}

	req := c.rest.Delete().
		AbsPath(ObjectPath(gvr, namespace, name)).
		SetHeader("Content-Type", runtime.ContentTypeJSON).
		Body(data)
	if opts.GracePeriodSeconds != nil {
		req = req.Param("gracePeriodSeconds", strconv.FormatInt(*opts.GracePeriodSeconds, 10))
	}
	if opts.OrphanDependents != nil {
		req = req.Param("orphanDependents", strconv.FormatBool(*opts.OrphanDependents))
	}

	result := req.Do(ctx)
	if err := result.Error(); err != nil {
		return nil, err
	}

	raw, err := result.Raw()
	if err != nil {
		return nil, err
	}

	resp := map[string]any{}
	if len(raw) == 0 {
		return resp, nil
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode delete response: %w", err)
	}
	return resp, nil
}

// ObjectPath returns the API path of a namespaced custom object.
func ObjectPath(gvr schema.GroupVersionResource, namespace, name string) string {
	return fmt.Sprintf("/apis/%s/%s/namespaces/%s/%s/%s", gvr.Group, gvr.Version, namespace, gvr.Resource, name)
}
