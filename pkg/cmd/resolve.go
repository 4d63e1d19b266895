// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	goversion "github.com/hashicorp/go-version"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"carvel.dev/ypp/pkg/orderedmap"
	"carvel.dev/ypp/pkg/preprocess"
	"carvel.dev/ypp/pkg/ui"
	"carvel.dev/ypp/pkg/version"
)

type ResolveOptions struct {
	File            string
	Output          string
	Debug           bool
	RequiredVersion string
}

func NewResolveOptions() *ResolveOptions {
	return &ResolveOptions{}
}

func NewResolveCmd(o *ResolveOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "resolve",
		Aliases: []string{"r"},
		Short:   "Resolve variables, includes, secrets and packages in a YAML file",
		RunE:    func(_ *cobra.Command, _ []string) error { return o.Run() },
	}
	cmd.Flags().StringVarP(&o.File, "file", "f", "", "Root YAML file to resolve")
	cmd.Flags().StringVarP(&o.Output, "output", "o", "yaml", "Output format (yaml, json, toml)")
	cmd.Flags().BoolVar(&o.Debug, "debug", false, "Enable debug output")
	cmd.Flags().StringVar(&o.RequiredVersion, "required-version", "",
		"Fail unless the running ypp version satisfies this constraint (eg '>=0.1.0')")
	return cmd
}

func (o *ResolveOptions) Run() error {
	if o.File == "" {
		return fmt.Errorf("Expected exactly one file specified with -f")
	}

	err := o.checkRequiredVersion()
	if err != nil {
		return err
	}

	result, err := preprocess.Load(o.File, ui.NewTTY(o.Debug))
	if err != nil {
		return err
	}

	return o.print(os.Stdout, result)
}

func (o *ResolveOptions) checkRequiredVersion() error {
	if o.RequiredVersion == "" {
		return nil
	}

	constraints, err := goversion.NewConstraint(o.RequiredVersion)
	if err != nil {
		return fmt.Errorf("Parsing required version constraint '%s': %s", o.RequiredVersion, err)
	}

	current, err := goversion.NewVersion(version.Version)
	if err != nil {
		return fmt.Errorf("Parsing version '%s': %s", version.Version, err)
	}

	if !constraints.Check(current) {
		return fmt.Errorf("ypp version '%s' does not meet the required version constraint '%s'",
			version.Version, o.RequiredVersion)
	}
	return nil
}

func (o *ResolveOptions) print(out io.Writer, result interface{}) error {
	switch o.Output {
	case "yaml":
		node, err := orderedmap.Conversion{Object: result}.AsYAMLNode()
		if err != nil {
			return err
		}
		bs, err := yaml.Marshal(node)
		if err != nil {
			return err
		}
		_, err = out.Write(bs)
		return err

	case "json":
		plain := orderedmap.Conversion{Object: result}.AsUnorderedStringMaps()
		bs, err := json.MarshalIndent(plain, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "%s\n", bs)
		return err

	case "toml":
		plain := orderedmap.Conversion{Object: result}.AsUnorderedStringMaps()
		if _, isMap := plain.(map[string]interface{}); !isMap {
			return fmt.Errorf("TOML output requires the document to be a mapping")
		}
		return toml.NewEncoder(out).Encode(plain)

	default:
		return fmt.Errorf("Unknown output format '%s' (expected yaml, json or toml)", o.Output)
	}
}
