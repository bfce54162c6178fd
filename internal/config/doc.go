// Package config loads and validates the service configuration.
//
// # Configuration Sources
//
// Sources are applied in increasing order of precedence:
//
//  1. Default() values
//  2. YAML file (COQ_CONFIG, config.yaml or configs/config.yaml)
//  3. .env file in the working directory
//  4. Environment variables
//
// # Environment Variables
//
// Variables use the COQ_ prefix and the nesting of the Config struct:
//
//	COQ_SERVER_PORT=8080
//	COQ_WORKBOOK_LOCATOR=https://example.com/coq.xlsx
//	COQ_WORKBOOK_NUMBER_FORMAT=comma
//	COQ_SCHEMA_RATIOS_COLUMNS=month:MONTH,prevention:P,appraisal:A,failure:F
//
// # Sheet Mappings
//
// Every sheet the dashboard reads is declared in SchemaConfig with an
// explicit field to header mapping. Load fails when a required field has
// no declared column; binding a sheet whose header lacks a declared column
// fails with an error naming that column.
package config
