/* Copyright (C) 2024 Wei Xie
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 */

package simpleaga

/* -------------------------------------------------------------------------- */

import "errors"
import "fmt"
import "log"
import "os"

/* -------------------------------------------------------------------------- */

// Invalid user supplied parameters (bin size, sampler settings, missing
// chromosome sizes, ...). Such errors are reported before any work starts.
var ErrConfig = errors.New("invalid configuration")

// Missing or inconsistent input data. Errors of this kind are usually
// logged and the affected chromosome is skipped.
var ErrData = errors.New("invalid data")

var ErrSequenceNotFound = errors.New("sequence not found")

// The sampler could not place all requested windows within the maximum
// number of retries.
var ErrSamplingInfeasible = errors.New("sampling infeasible")

/* -------------------------------------------------------------------------- */

func configError(parameter, format string, args ...interface{}) error {
  return fmt.Errorf("%w: %s: %s", ErrConfig, parameter, fmt.Sprintf(format, args...))
}

func dataError(format string, args ...interface{}) error {
  return fmt.Errorf("%w: %s", ErrData, fmt.Sprintf(format, args...))
}

// A data error is recoverable, the caller may skip the affected item.
func isDataError(err error) bool {
  if errors.Is(err, ErrConfig) {
    return false
  }
  return errors.Is(err, ErrData) || errors.Is(err, ErrSequenceNotFound)
}

/* -------------------------------------------------------------------------- */

var defaultLogger = log.New(os.Stderr, "", 0)

func getLogger(logger *log.Logger) *log.Logger {
  if logger == nil {
    return defaultLogger
  }
  return logger
}
