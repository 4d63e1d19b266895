// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package preprocess

import (
	"math"
	"reflect"
	"testing"
	"time"
)

func TestResolveScalarTag(t *testing.T) {
	cases := map[string]string{
		"":          nullTag,
		"~":         nullTag,
		"null":      nullTag,
		"NULL":      nullTag,
		"true":      boolTag,
		"True":      boolTag,
		"FALSE":     boolTag,
		"yes":       strTag,
		"Yes":       strTag,
		"no":        strTag,
		"on":        strTag,
		"Off":       strTag,
		"y":         strTag,
		"42":        intTag,
		"-7":        intTag,
		"+12":       intTag,
		"0":         intTag,
		"0x1A":      intTag,
		"0b1010":    intTag,
		"0777":      intTag,
		"1_000":     intTag,
		"190:20:30": intTag,
		"3.14":      floatTag,
		"-0.5":      floatTag,
		".25":       floatTag,
		"6.85e+5":   floatTag,
		".inf":      floatTag,
		"-.Inf":     floatTag,
		".NaN":      floatTag,
		"<<":        mergeTag,
		"=":         valueTag,
		"hello":     strTag,
		"12 monkeys": strTag,
		"2001-12-14": timestampTag,
		"2001-12-14 21:59:43.10 -5":  timestampTag,
		"2001-12-15T02:59:43.1Z":     timestampTag,
		"2002-12-14t21:59:43+05:30":  timestampTag,
	}

	for val, expectedTag := range cases {
		if tag := resolveScalarTag(val); tag != expectedTag {
			t.Errorf("Expected '%s' to resolve to %s, got %s", val, expectedTag, tag)
		}
	}
}

func TestConstructInt(t *testing.T) {
	cases := map[string]interface{}{
		"42":        42,
		"-7":        -7,
		"+12":       12,
		"0":         0,
		"0x1A":      26,
		"0b1010":    10,
		"0777":      511,
		"1_000":     1000,
		"190:20:30": 685230,
		"9223372036854775807":  math.MaxInt64,
		"-9223372036854775808": math.MinInt64,
	}

	for val, expected := range cases {
		result, err := constructInt(val)
		if err != nil {
			t.Fatalf("Expected '%s' to parse: %s", val, err)
		}
		if !reflect.DeepEqual(result, expected) {
			t.Errorf("Expected '%s' => %#v, got %#v", val, expected, result)
		}
	}
}

func TestConstructFloat(t *testing.T) {
	cases := map[string]float64{
		"3.14":         3.14,
		"-0.5":         -0.5,
		"6.85e+5":      685000,
		"685_230.15":   685230.15,
		"190:20:30.15": 685230.15,
		".inf":         math.Inf(1),
		"-.Inf":        math.Inf(-1),
	}

	for val, expected := range cases {
		result, err := constructFloat(val)
		if err != nil {
			t.Fatalf("Expected '%s' to parse: %s", val, err)
		}
		if result != expected {
			t.Errorf("Expected '%s' => %v, got %v", val, expected, result)
		}
	}

	nan, err := constructFloat(".NaN")
	if err != nil {
		t.Fatalf("Expected '.NaN' to parse: %s", err)
	}
	if !math.IsNaN(nan) {
		t.Errorf("Expected '.NaN' => NaN, got %v", nan)
	}
}

func TestConstructTimestamp(t *testing.T) {
	dateOnly, err := constructTimestamp("2001-12-14")
	if err != nil {
		t.Fatalf("Expected date to parse: %s", err)
	}
	if !dateOnly.Equal(time.Date(2001, 12, 14, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected date: %s", dateOnly)
	}

	canonical, err := constructTimestamp("2001-12-15T02:59:43.1Z")
	if err != nil {
		t.Fatalf("Expected timestamp to parse: %s", err)
	}
	if !canonical.Equal(time.Date(2001, 12, 15, 2, 59, 43, 100000000, time.UTC)) {
		t.Errorf("Unexpected timestamp: %s", canonical)
	}

	withOffset, err := constructTimestamp("2002-12-14t21:59:43+05:30")
	if err != nil {
		t.Fatalf("Expected timestamp to parse: %s", err)
	}
	if !withOffset.Equal(time.Date(2002, 12, 14, 16, 29, 43, 0, time.UTC)) {
		t.Errorf("Unexpected timestamp: %s", withOffset)
	}
}
