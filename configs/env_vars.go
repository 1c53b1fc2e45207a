// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// DotEnvFile is read from the working directory by [InlineConfig.LoadConfig].
var DotEnvFile = ".env"

var (
	errExpectedPointerToStruct = errors.New("expected a pointer to a struct")
	errUnsupportedFieldType    = errors.New("unsupported field type")
)

// readEnv populates spec, a pointer to a struct, from the environment
// variables named by its env tags. Nested structs are walked recursively.
// Without the "overwrite" tag option a value already set by the config
// file is kept.
func readEnv(spec any) error {
	v := reflect.ValueOf(spec)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w, got %T", errExpectedPointerToStruct, spec)
	}

	v = v.Elem()

	for i := range v.NumField() {
		field, sf := v.Field(i), v.Type().Field(i)

		tag := sf.Tag.Get("env")
		if tag == "" {
			if field.Kind() == reflect.Struct && sf.IsExported() {
				if err := readEnv(field.Addr().Interface()); err != nil {
					return err
				}
			}

			continue
		}

		name, opts, _ := strings.Cut(tag, ",")

		value, ok := os.LookupEnv(name)
		if !ok || !field.CanSet() {
			continue
		}

		if !slices.Contains(strings.Split(opts, ","), "overwrite") && !field.IsZero() {
			continue
		}

		if err := setField(field, value); err != nil {
			return fmt.Errorf("env var %s for %s: %w", name, sf.Name, err)
		}
	}

	return nil
}

func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int:
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}

		field.SetInt(int64(n))
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}

		field.SetBool(b)
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("%w: %s", errUnsupportedFieldType, field.Type())
		}

		var items []string

		for item := range strings.SplitSeq(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}

		field.Set(reflect.ValueOf(items))
	default:
		return fmt.Errorf("%w: %s", errUnsupportedFieldType, field.Kind())
	}

	return nil
}

// useDotEnv exports the KEY=value lines of [DotEnvFile]. Variables already
// present in the environment win. A missing file is not an error.
func useDotEnv() error {
	data, err := os.ReadFile(DotEnvFile)
	if os.IsNotExist(err) {
		log.Debug().Str("path", DotEnvFile).Msg("No .env file found, skipping")

		return nil
	}

	if err != nil {
		return err
	}

	sc := bufio.NewScanner(bytes.NewReader(data))

	for lineNumber := 1; sc.Scan(); lineNumber++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			log.Warn().
				Str("path", DotEnvFile).
				Int("line", lineNumber).
				Msg("Invalid format in .env file")

			continue
		}

		key, value = strings.TrimSpace(key), strings.TrimSpace(value)

		if len(value) >= 2 && value[0] == value[len(value)-1] && (value[0] == '"' || value[0] == '\'') {
			value = value[1 : len(value)-1]
		}

		if _, set := os.LookupEnv(key); set {
			continue
		}

		if err := os.Setenv(key, value); err != nil {
			return err
		}
	}

	log.Info().Str("path", DotEnvFile).Msg("Loaded configuration from .env file")

	return sc.Err()
}
