// Package config provides configuration parsing for tablekit servers.
//
// The configuration is stored in tablekit.json at the project root.
// This package handles loading, saving, and validating configuration.
//
// # Configuration File Structure
//
//	{
//	  "address": ":8090",
//	  "maxSessions": 1000,
//	  "idleTimeout": "10m",
//	  "metrics": {
//	    "namespace": "tablekit"
//	  },
//	  "dataset": {
//	    "source": "file",
//	    "path": "./inventory.json"
//	  },
//	  "table": {
//	    "searchKeys": ["name", "sku"],
//	    "categoryKey": "category",
//	    "statusKey": "status",
//	    "itemsPerPage": 10,
//	    "urlPrefix": "inv"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Address:", cfg.Address)
package config
