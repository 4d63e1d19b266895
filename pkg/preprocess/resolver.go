// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package preprocess

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Short-form tags used throughout the preprocessor. These mirror the
// yaml.org,2002 tags that gopkg.in/yaml.v3 attaches to nodes.
const (
	strTag       = "!!str"
	boolTag      = "!!bool"
	intTag       = "!!int"
	floatTag     = "!!float"
	nullTag      = "!!null"
	timestampTag = "!!timestamp"
	mergeTag     = "!!merge"
	valueTag     = "!!value"

	includeTag = "!include"
	secretTag  = "!secret"
)

// Scalar resolution follows YAML 1.1 implicit typing with one deviation:
// only the literal words "true" and "false" (any case) resolve to a
// boolean. "yes", "no", "on", "off" and friends stay strings, matching
// parsers that treat boolean-like words as strings.
var (
	boolPattern = regexp.MustCompile(`^(?i:true|false)$`)
	nullPattern = regexp.MustCompile(`^(?:~|null|Null|NULL|)$`)
	intPattern  = regexp.MustCompile(`^[-+]?(?:0b[0-1_]+|0x[0-9a-fA-F_]+|0[0-7_]+|(?:0|[1-9][0-9_]*)|[1-9][0-9_]*(?::[0-5]?[0-9])+)$`)
	floatPattern     = regexp.MustCompile(`^(?:[-+]?(?:\.[0-9_]+|[0-9][0-9_]*(?:\.[0-9_]*)?)(?:[eE][-+]?[0-9]+)?|[-+]?[0-9][0-9_]*(?::[0-5]?[0-9])+\.[0-9_]*|[-+]?\.(?:inf|Inf|INF)|\.(?:nan|NaN|NAN))$`)
	timestampPattern = regexp.MustCompile(`^(?:([0-9][0-9][0-9][0-9])-([0-9][0-9])-([0-9][0-9])|([0-9][0-9][0-9][0-9])-([0-9][0-9]?)-([0-9][0-9]?)(?:[Tt]|[ \t]+)([0-9][0-9]?):([0-9][0-9]):([0-9][0-9])(\.[0-9]*)?(?:[ \t]*(Z|[-+][0-9][0-9]?(?::?[0-9][0-9])?))?)$`)
	mergePattern     = regexp.MustCompile(`^(?:<<)$`)
	valuePattern     = regexp.MustCompile(`^(?:=)$`)
)

// resolveScalarTag classifies a raw plain-style scalar string into the
// tag it would carry implicitly.
func resolveScalarTag(val string) string {
	switch {
	case nullPattern.MatchString(val):
		return nullTag
	case boolPattern.MatchString(val):
		return boolTag
	case intPattern.MatchString(val):
		return intTag
	case floatPattern.MatchString(val):
		return floatTag
	case timestampPattern.MatchString(val):
		return timestampTag
	case mergePattern.MatchString(val):
		return mergeTag
	case valuePattern.MatchString(val):
		return valueTag
	default:
		return strTag
	}
}

// The construct* funcs turn a raw scalar string whose tag has already
// been resolved into its Go value. They assume the string matched the
// corresponding pattern; leftover parse failures are reported.

func constructBool(val string) bool {
	return strings.EqualFold(val, "true")
}

func constructInt(val string) (interface{}, error) {
	str := strings.ReplaceAll(val, "_", "")

	sign := int64(1)
	if strings.HasPrefix(str, "-") {
		sign = -1
		str = str[1:]
	} else {
		str = strings.TrimPrefix(str, "+")
	}

	var unsigned uint64
	var err error

	switch {
	case strings.HasPrefix(str, "0b"):
		unsigned, err = strconv.ParseUint(str[2:], 2, 64)
	case strings.HasPrefix(str, "0x"):
		unsigned, err = strconv.ParseUint(str[2:], 16, 64)
	case strings.Contains(str, ":"):
		// sexagesimal, eg 190:20:30
		var total uint64
		for _, part := range strings.Split(str, ":") {
			digit, digitErr := strconv.ParseUint(part, 10, 64)
			if digitErr != nil {
				return nil, fmt.Errorf("Parsing sexagesimal int '%s': %s", val, digitErr)
			}
			total = total*60 + digit
		}
		unsigned = total
	case len(str) > 1 && strings.HasPrefix(str, "0"):
		unsigned, err = strconv.ParseUint(str[1:], 8, 64)
	default:
		unsigned, err = strconv.ParseUint(str, 10, 64)
	}
	if err != nil {
		return nil, fmt.Errorf("Parsing int '%s': %s", val, err)
	}

	signed := sign * int64(unsigned)
	if sign > 0 && unsigned > uint64(1)<<63-1 {
		return unsigned, nil
	}
	if signed == int64(int(signed)) {
		return int(signed), nil
	}
	return signed, nil
}

func constructFloat(val string) (float64, error) {
	str := strings.ReplaceAll(val, "_", "")

	switch {
	case strings.HasSuffix(strings.ToLower(str), ".inf"):
		if strings.HasPrefix(str, "-") {
			return math.Inf(-1), nil
		}
		return math.Inf(1), nil

	case strings.HasSuffix(strings.ToLower(str), ".nan"):
		return math.NaN(), nil

	case strings.Contains(str, ":"):
		// sexagesimal, eg 190:20:30.15
		sign := 1.0
		if strings.HasPrefix(str, "-") {
			sign = -1.0
			str = str[1:]
		} else {
			str = strings.TrimPrefix(str, "+")
		}
		var total float64
		for _, part := range strings.Split(str, ":") {
			digit, err := strconv.ParseFloat(part, 64)
			if err != nil {
				return 0, fmt.Errorf("Parsing sexagesimal float '%s': %s", val, err)
			}
			total = total*60 + digit
		}
		return sign * total, nil

	default:
		floatVal, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return 0, fmt.Errorf("Parsing float '%s': %s", val, err)
		}
		return floatVal, nil
	}
}

func constructTimestamp(val string) (time.Time, error) {
	groups := timestampPattern.FindStringSubmatch(val)
	if groups == nil {
		return time.Time{}, fmt.Errorf("Parsing timestamp '%s'", val)
	}

	if groups[1] != "" {
		// date only
		year, _ := strconv.Atoi(groups[1])
		month, _ := strconv.Atoi(groups[2])
		day, _ := strconv.Atoi(groups[3])
		return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
	}

	year, _ := strconv.Atoi(groups[4])
	month, _ := strconv.Atoi(groups[5])
	day, _ := strconv.Atoi(groups[6])
	hour, _ := strconv.Atoi(groups[7])
	minute, _ := strconv.Atoi(groups[8])
	second, _ := strconv.Atoi(groups[9])

	nanos := 0
	if frac := groups[10]; len(frac) > 1 {
		fracVal, err := strconv.ParseFloat("0"+frac, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("Parsing timestamp fraction '%s': %s", val, err)
		}
		nanos = int(fracVal * 1e9)
	}

	loc := time.UTC
	if tz := groups[11]; tz != "" && tz != "Z" {
		offsetStr := strings.ReplaceAll(tz, ":", "")
		sign := 1
		if strings.HasPrefix(offsetStr, "-") {
			sign = -1
		}
		offsetStr = offsetStr[1:]
		var hours, minutes int
		if len(offsetStr) > 2 {
			hours, _ = strconv.Atoi(offsetStr[:len(offsetStr)-2])
			minutes, _ = strconv.Atoi(offsetStr[len(offsetStr)-2:])
		} else {
			hours, _ = strconv.Atoi(offsetStr)
		}
		loc = time.FixedZone("", sign*(hours*3600+minutes*60))
	}

	return time.Date(year, time.Month(month), day, hour, minute, second, nanos, loc), nil
}
