package provisioner

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
	"k8s.io/client-go/kubernetes"

	"github.com/mongodb/mongodb-kube-provisioner/pkg/k8s/customobjects"
	"github.com/mongodb/mongodb-kube-provisioner/pkg/logging"
	"github.com/mongodb/mongodb-kube-provisioner/pkg/resources"
)

// Operation names used in logs, metrics and run reports.
const (
	OpCreate = "create"
	OpDelete = "delete"
	OpGet    = "get"
)

// Credentials are the Ops Manager API credentials stored in the credentials Secret.
type Credentials struct {
	APIUser string
	APIKey  string
}

// Project identifies the Ops Manager project stored in the project ConfigMap.
type Project struct {
	ProjectID string
	BaseURL   string
}

// ClusterContext is the read-only context shared by every provisioning call.
type ClusterContext struct {
	// Namespace must already exist in the cluster.
	Namespace   string
	Credentials Credentials
	Project     Project
}

// Provisioner submits MongoDB operator resources to a cluster.
// It holds no state beyond what it was constructed with.
type Provisioner struct {
	kube     kubernetes.Interface
	custom   customobjects.Interface
	cluster  ClusterContext
	operator resources.OperatorOptions
	mongodb  resources.MongoDBOptions
	limiter  *rate.Limiter
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Provisioner.
type Option func(*Provisioner)

// WithOperatorOptions overrides the operator images and pull settings.
func WithOperatorOptions(opts resources.OperatorOptions) Option {
	return func(p *Provisioner) {
		p.operator = opts
	}
}

// WithMongoDBOptions sets the persistence and CRD flavor of created MongoDB resources.
func WithMongoDBOptions(opts resources.MongoDBOptions) Option {
	return func(p *Provisioner) {
		p.mongodb = opts
	}
}

// WithRateLimiter paces API calls through l. A nil limiter disables pacing.
func WithRateLimiter(l *rate.Limiter) Option {
	return func(p *Provisioner) {
		p.limiter = l
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(p *Provisioner) {
		if l != nil {
			p.logger = l
		}
	}
}

// New creates a Provisioner for cluster using the given API clients.
func New(kube kubernetes.Interface, custom customobjects.Interface, cluster ClusterContext, opts ...Option) *Provisioner {
	p := &Provisioner{
		kube:     kube,
		custom:   custom,
		cluster:  cluster,
		operator: resources.DefaultOperatorOptions(),
		mongodb:  resources.MongoDBOptions{Flavor: resources.FlavorLegacy},
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With(logging.Namespace(cluster.Namespace))
	return p
}

// Namespace returns the namespace resources are created in.
func (p *Provisioner) Namespace() string {
	return p.cluster.Namespace
}

// Kube returns the client of the cluster being provisioned.
func (p *Provisioner) Kube() kubernetes.Interface {
	return p.kube
}

// Flavor returns the CRD flavor used for MongoDB resources.
func (p *Provisioner) Flavor() resources.Flavor {
	if p.mongodb.Flavor == "" {
		return resources.FlavorLegacy
	}
	return p.mongodb.Flavor
}

// wait blocks until the rate limiter admits one API call.
func (p *Provisioner) wait(ctx context.Context) error {
	if p.limiter == nil {
		return nil
	}
	return p.limiter.Wait(ctx)
}

// track records the outcome of one remote call and wraps any failure into an *APIError.
func (p *Provisioner) track(op string, kind resources.Kind, name string, start time.Time, err error) error {
	elapsed := p.now().Sub(start)
	if err != nil {
		err = newAPIError(op, kind, name, err)
		observeRequest(op, kind, logging.StatusError, elapsed)
		p.logger.Error("api request failed",
			logging.Operation(op),
			logging.Kind(kind.String()),
			logging.ResourceName(name),
			logging.Status(logging.StatusError),
			logging.Err(err))
		return err
	}

	observeRequest(op, kind, logging.StatusSuccess, elapsed)
	p.logger.Info("api request succeeded",
		logging.Operation(op),
		logging.Kind(kind.String()),
		logging.ResourceName(name),
		logging.Status(logging.StatusSuccess),
		slog.Duration("duration", elapsed))
	return nil
}
