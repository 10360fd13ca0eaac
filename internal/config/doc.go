// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package config provides loading and typed accessors for csvfilter's user
// configuration. The configuration is a YAML document named csvfilter.yaml in
// the user's configuration directory (see os.UserConfigDir), or the file named
// by CSVFILTER_CFG_FILE.
//
// Keys are addressed with dotted paths such as "colors.title". When a
// Namespace is set (normally the running subcommand, e.g. "filter"), the
// namespaced key "filter.delimiter" is preferred over "delimiter".
//
// A typical file:
//
//	delimiter: ","
//	colors:
//	  title: "#f6be00"
//	filter:
//	  flush: end
//	  defaults:
//	    - --titles
//	    - --output text
package config
