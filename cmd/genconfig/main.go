// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// genconfig writes the example configuration files under deploy/ from the
// defaults of config.InlineConfig.
package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog/log"

	config "codeberg.org/pixivfe/i18ninline/configs"
	"codeberg.org/pixivfe/i18ninline/core/audit"
)

const (
	envOutputFile  = "deploy/.env.example"
	yamlOutputFile = "deploy/i18n-inline.yaml.example"
	tomlOutputFile = "deploy/i18n-inline.toml.example"
	filePerm       = 0o644

	placeholderTranslation = "po/fr.po"

	envFileHeader = `# i18n-inline configuration (via environment variables)
#
# Copy this file to .env and customize the values below.
#
# This file was auto-generated using go run ./cmd/genconfig.

`
	fileHeader = `# i18n-inline configuration (via configuration file)
#
# Copy this file to %s and customize the values below.
#
# This file was auto-generated using go run ./cmd/genconfig.
`
)

func main() {
	audit.SetDefaultLogger()

	yamlContent, err := yamlExample(defaults())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to marshal config to YAML")
	}

	tomlContent, err := tomlExample(defaults())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to marshal config to TOML")
	}

	write(envOutputFile, envExample(defaults()))
	write(yamlOutputFile, yamlContent)
	write(tomlOutputFile, tomlContent)
}

func defaults() *config.InlineConfig {
	cfg := &config.InlineConfig{}
	cfg.SetDefaults()
	cfg.Translation.Translation = placeholderTranslation

	return cfg
}

func write(path, content string) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("Failed to create directory")
	}

	if err := os.WriteFile(path, []byte(content), filePerm); err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("Failed to write example file")
	}

	log.Info().Str("path", path).Msg("Successfully generated example file")
}

// envExample lists every env-tagged field, grouped by section. Only the
// translation path is left uncommented.
func envExample(cfg *config.InlineConfig) string {
	var sb strings.Builder
	sb.WriteString(envFileHeader)

	val := reflect.ValueOf(*cfg)
	typ := val.Type()

	for i := range typ.NumField() {
		structField := typ.Field(i)
		structValue := val.Field(i)

		if structValue.Kind() != reflect.Struct || structField.Name == "Build" {
			continue
		}

		fmt.Fprintf(&sb, "## %s\n", structField.Name)

		innerTyp := structValue.Type()
		for j := range innerTyp.NumField() {
			field := innerTyp.Field(j)
			value := structValue.Field(j)

			tag, ok := field.Tag.Lookup("env")
			if !ok {
				continue
			}

			name := strings.Split(tag, ",")[0]

			switch {
			case name == "I18NINLINE_TRANSLATION":
				fmt.Fprintf(&sb, "%s=\"%v\"\n", name, value.Interface())
			case value.Kind() == reflect.Slice:
				parts := make([]string, value.Len())
				for k := range parts {
					parts[k] = fmt.Sprint(value.Index(k).Interface())
				}

				fmt.Fprintf(&sb, "# %s=%s\n", name, strings.Join(parts, ","))
			case value.IsZero():
				fmt.Fprintf(&sb, "# %s=\n", name)
			default:
				fmt.Fprintf(&sb, "# %s=%v\n", name, value.Interface())
			}
		}

		sb.WriteString("\n")
	}

	return sb.String()
}

// yamlExample comments out every key except the section headers and the
// translation path.
func yamlExample(cfg *config.InlineConfig) (string, error) {
	content, err := cfg.YAML()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, fileHeader, "i18n-inline.yaml")

	for line := range strings.SplitSeq(string(content), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if !strings.HasPrefix(line, " ") {
			fmt.Fprintf(&sb, "\n%s\n", line)

			continue
		}

		if strings.HasPrefix(trimmed, "translation:") {
			sb.WriteString(line + "\n")

			continue
		}

		indentSize := len(line) - len(strings.TrimLeft(line, " "))
		fmt.Fprintf(&sb, "%s# %s\n", strings.Repeat(" ", indentSize), trimmed)
	}

	return sb.String(), nil
}

// tomlExample is the TOML rendition of yamlExample.
func tomlExample(cfg *config.InlineConfig) (string, error) {
	var buf bytes.Buffer

	enc := toml.NewEncoder(&buf)
	enc.Indent = ""

	if err := enc.Encode(cfg); err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, fileHeader, "i18n-inline.toml")

	for line := range strings.SplitSeq(buf.String(), "\n") {
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
		case strings.HasPrefix(trimmed, "["):
			fmt.Fprintf(&sb, "\n%s\n", trimmed)
		case strings.HasPrefix(trimmed, "translation ="):
			sb.WriteString(trimmed + "\n")
		default:
			sb.WriteString("# " + trimmed + "\n")
		}
	}

	return sb.String(), nil
}
