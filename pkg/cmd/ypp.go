// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"github.com/cppforlife/cobrautil"
	"github.com/spf13/cobra"

	"carvel.dev/ypp/pkg/version"
)

type YppOptions struct{}

func NewDefaultYppOptions() *YppOptions {
	return &YppOptions{}
}

func NewDefaultYppCmd() *cobra.Command {
	return NewYppCmd(NewDefaultYppOptions())
}

func NewYppCmd(o *YppOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ypp",
		Version: version.Version,
		Short:   "ypp preprocesses YAML configuration",
		Long: `ypp preprocesses YAML configuration: variable substitution,
file inclusion, secret resolution and package merging.`,
	}

	// Affects children as well
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	// Disable docs header
	cmd.DisableAutoGenTag = true

	cmd.AddCommand(NewResolveCmd(NewResolveOptions()))
	cmd.AddCommand(NewVersionCmd(NewVersionOptions()))

	// Reconfigure Commands
	cobrautil.VisitCommands(cmd, cobrautil.ReconfigureCmdWithSubcmd,
		cobrautil.DisallowExtraArgs, cobrautil.WrapRunEForCmd(cobrautil.ResolveFlagsForCmd))

	return cmd
}
