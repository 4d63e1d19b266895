// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package ui provides a thin abstraction over user-facing output (typically,
a tty device). The preprocessor reports structural warnings and debug
traces through it.
*/
package ui
