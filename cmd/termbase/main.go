// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the termbase server and its
// maintenance commands.
package main

import "os"

var version = "dev"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
