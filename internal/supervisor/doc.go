// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

/*
Package supervisor runs the long-lived parts of the service under a suture v4
supervisor tree.

	RootSupervisor ("wheretoeat")
	├── MaintenanceSupervisor ("maintenance-layer")
	│   ├── scan-cache-sweeper
	│   └── session-cleaner
	└── APISupervisor ("api-layer")
	    └── http-server

Crashed services restart with backoff once FailureThreshold is exceeded.
Supervisor events are logged through sutureslog into the zerolog global
logger:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddMaintenanceService(services.NewSessionCleaner(store, 5*time.Minute))
	tree.AddAPIService(services.NewHTTPServerService(server, addr, 10*time.Second))

	errCh := tree.ServeBackground(ctx)

Cancel ctx to stop the tree; UnstoppedServiceReport lists services that did
not return within ShutdownTimeout.
*/
package supervisor
