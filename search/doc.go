// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package search ranks stored LAQ items against a query and synthesizes
// grounded chat answers.
//
// Ranking converts cosine distances to percentage similarity scores and
// labels each result with a quality bucket (strong, moderate, weak). The
// Chat type builds a context block from the top-ranked results and asks the
// generator to answer from it.
package search
