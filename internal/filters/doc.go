// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package filters selects template rows with --filter expressions.
//
// An expression is key, operator and target. Expressions are joined with ","
// (or WSINFRA_FILTER_DELIM). Operators, each negatable with a leading '!':
//
//   - = : equals
//   - ~ : equals, ignoring case
//   - ^ : has prefix
//   - < : less than (numeric for numbers)
//   - > : greater than (numeric for numbers)
//   - @ : contains (substring, list element or map key)
//   - / : matches regular expression
//
// Examples:
//
//   - "type=AWS::ImageBuilder::ImagePipeline"
//   - "logicalId^Workstation"
//   - "VolumeSize>20"
//   - "dependsOn@WorkstationImageRecipe"
//   - "hungarian=false" : logical ids that do not repeat their type
//
// The key names an attr by its output key. A key that matches no attr is
// used directly as a row path, so rows can be filtered on fields that are
// not displayed.
package filters
