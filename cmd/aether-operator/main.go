// Command aether-operator runs the controller-runtime manager that
// reconciles IdentityInstance and IdentityInstanceUpgrade resources on a
// data plane cluster (spec §4.6). It is a separate process from
// cmd/aether-api / cmd/aether-herald because controller-runtime owns its
// own manager lifecycle instead of internal/app's Run loop.
package main

import (
	"fmt"
	"os"

	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/healthz"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
	metricsserver "sigs.k8s.io/controller-runtime/pkg/metrics/server"

	aetherv1alpha1 "github.com/aetherhq/control-plane/api/v1alpha1"
	"github.com/aetherhq/control-plane/internal/config"
	"github.com/aetherhq/control-plane/internal/operator"
)

var scheme = clientgoscheme.Scheme

func init() {
	utilruntime.Must(aetherv1alpha1.AddToScheme(scheme))
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: loading config: %v\n", err)
		os.Exit(1)
	}

	ctrl.SetLogger(zap.New(zap.UseDevMode(cfg.LogFormat != "json")))
	setupLog := ctrl.Log.WithName("setup")

	mgr, err := ctrl.NewManager(ctrl.GetConfigOrDie(), ctrl.Options{
		Scheme:                  scheme,
		Metrics:                 metricsserver.Options{BindAddress: cfg.OperatorMetricsAddr},
		HealthProbeBindAddress:  cfg.OperatorProbeAddr,
		LeaderElection:          cfg.OperatorLeaderElect,
		LeaderElectionID:        "aether-operator-lock",
		LeaderElectionNamespace: cfg.OperatorNamespace,
	})
	if err != nil {
		setupLog.Error(err, "unable to start manager")
		os.Exit(1)
	}

	if err := (&operator.IdentityInstanceReconciler{
		Client:   mgr.GetClient(),
		Scheme:   mgr.GetScheme(),
		Recorder: mgr.GetEventRecorderFor("aether-operator"),
	}).SetupWithManager(mgr); err != nil {
		setupLog.Error(err, "unable to create controller", "controller", "IdentityInstance")
		os.Exit(1)
	}

	if err := (&operator.IdentityInstanceUpgradeReconciler{
		Client:   mgr.GetClient(),
		Scheme:   mgr.GetScheme(),
		Recorder: mgr.GetEventRecorderFor("aether-operator"),
	}).SetupWithManager(mgr); err != nil {
		setupLog.Error(err, "unable to create controller", "controller", "IdentityInstanceUpgrade")
		os.Exit(1)
	}

	if err := mgr.AddHealthzCheck("healthz", healthz.Ping); err != nil {
		setupLog.Error(err, "unable to set up health check")
		os.Exit(1)
	}
	if err := mgr.AddReadyzCheck("readyz", healthz.Ping); err != nil {
		setupLog.Error(err, "unable to set up ready check")
		os.Exit(1)
	}

	setupLog.Info("starting manager", "namespace", cfg.OperatorNamespace)
	if err := mgr.Start(ctrl.SetupSignalHandler()); err != nil {
		setupLog.Error(err, "problem running manager")
		os.Exit(1)
	}
}
