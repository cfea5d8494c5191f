/*
Copyright 2022 The pdfcpu Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package main provides the command line for running the ECG
// digitizer against a scanned image.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/mechiko/ecgdigitizer/pkg/ecg/digitize"
	"github.com/mechiko/ecgdigitizer/pkg/ecg/model"
	"github.com/mechiko/ecgdigitizer/pkg/ecg/oracle"
	"github.com/mechiko/ecgdigitizer/pkg/ecg/orient"
	"github.com/mechiko/ecgdigitizer/pkg/ecg/pixel"
	"github.com/mechiko/ecgdigitizer/pkg/log/zaplog"
)

var (
	configPath string
	outPath    string
	verbose    bool
)

func init() {
	flag.StringVar(&configPath, "config", "", "path to a config.yaml overriding the defaults")
	flag.StringVar(&configPath, "c", "", "path to a config.yaml overriding the defaults")
	flag.StringVar(&outPath, "out", "", "write the JSON result here instead of stdout")
	flag.StringVar(&outPath, "o", "", "write the JSON result here instead of stdout")
	flag.BoolVar(&verbose, "verbose", false, "enable structured stage logging")
	flag.BoolVar(&verbose, "v", false, "enable structured stage logging")
}

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: ecgdigitize [-c config.yaml] [-o result.json] [-v] <scan.png|scan.jpg>")
		os.Exit(1)
	}

	cfg := loadConfiguration(configPath)

	result, err := run(flag.Arg(0), cfg, verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ecgdigitize: %v\n", err)
		os.Exit(1)
	}

	writeResult(result)
}

func loadConfiguration(path string) *model.Configuration {
	cfg := model.DefaultConfiguration()
	if path == "" {
		return cfg
	}
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ecgdigitize: reading config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.LoadYAML(data); err != nil {
		fmt.Fprintf(os.Stderr, "ecgdigitize: parsing config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "ecgdigitize: invalid config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func run(path string, cfg *model.Configuration, verbose bool) (*model.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := pixel.Decode(f)
	if err != nil {
		return nil, err
	}

	var zl *zap.Logger
	if verbose {
		installed, err := zaplog.Install(false)
		if err != nil {
			return nil, err
		}
		zl = installed
	}

	var adapter *oracle.Adapter
	if cfg.OracleProvider != "" {
		provider, err := oracle.Lookup(cfg.OracleProvider)
		if err != nil {
			return nil, err
		}
		var cache *oracle.Cache
		if cfg.CacheEnabled {
			cache = oracle.NewCache(cfg.CacheDir, cfg.CacheTTL, cfg.CacheMaxBytes, cfg.CacheCompress)
		}
		adapter = oracle.NewAdapter(provider, defaultPrompt, cfg.OracleModel, cfg.OracleAPIKey, cfg.ReasoningEffort, cache, cfg.CacheEnabled, cfg.OracleRatePerSec)
	}

	d := digitize.New(cfg, adapter, zl)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.OracleTimeout+20*time.Second)
	defer cancel()
	return d.Digitize(ctx, img, orient.OrientationNormal)
}

func writeResult(result *model.Result) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "ecgdigitize: encoding result: %v\n", err)
		os.Exit(1)
	}
	if outPath == "" {
		fmt.Println(string(data))
		return
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "ecgdigitize: writing result: %v\n", err)
		os.Exit(1)
	}
}

const defaultPrompt = `Analyze this ECG scan. Identify the grid spacing, panel layout, ` +
	`calibration pulse, and each panel's lead label and baseline. Respond with JSON only.`
