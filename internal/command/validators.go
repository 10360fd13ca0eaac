// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"
	"slices"

	"github.com/tfctl/csvfilter/internal/engine"
	"github.com/tfctl/csvfilter/internal/output"
	"github.com/tfctl/csvfilter/internal/source"
)

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

func OutputValidator(value any) error {
	s, _ := value.(string)
	if !slices.Contains(output.Formats, s) {
		return fmt.Errorf("must be one of %v", output.Formats)
	}
	return nil
}

func FlushValidator(value any) error {
	s, _ := value.(string)
	_, err := engine.ParseFlushPolicy(s)
	return err
}

func DelimiterValidator(value any) error {
	s, _ := value.(string)
	_, err := source.ParseDelimiter(s)
	return err
}

// PairsValidator checks that every column has a query to go with it.
func PairsValidator(columns, queries []string) error {
	if len(columns) == 0 {
		return fmt.Errorf("at least one --column is required")
	}
	if len(columns) != len(queries) {
		return fmt.Errorf("got %d --column and %d --query values, they must pair up", len(columns), len(queries))
	}
	return nil
}
