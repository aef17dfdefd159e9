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

import "encoding/gob"
import "fmt"
import "os"
import "path/filepath"

import "gonum.org/v1/gonum/mat"

/* -------------------------------------------------------------------------- */

// Interface to an HMM with Gaussian emissions. Observations have one row
// per bin and one column per track. The rows are the concatenation of
// independent sequences whose lengths are given by lengths, a nil lengths
// vector denotes a single sequence. Fit is called once per minibatch and
// is expected to continue from the current parameters.
type Trainer interface {
  Fit(observations *mat.Dense, lengths []int) error
  // Posterior state probabilities, one row per observation
  PredictProba(observations *mat.Dense, lengths []int) (*mat.Dense, error)
  Parameters() (ModelParameters, error)
}

/* -------------------------------------------------------------------------- */

// Parameters of a Gaussian HMM with K states and D tracks.
type ModelParameters struct {
  // K x D
  Means       *mat.Dense
  // K matrices of size D x D
  Covariances []*mat.Dense
  // K x K
  Transitions *mat.Dense
}

const (
  emissionsMeansFile  = "emissions_means.npy"
  emissionsCovarsFile = "emissions_covars.npy"
  transitionsFile     = "transitions.npy"
  modelFile           = "model.gob"
)

func (p ModelParameters) Dims() (int, int, error) {
  if p.Means == nil || p.Transitions == nil {
    return 0, 0, dataError("model parameters are incomplete")
  }
  k, d := p.Means.Dims()
  if r, c := p.Transitions.Dims(); r != k || c != k {
    return 0, 0, dataError("transition matrix has dimension %dx%d, expected %dx%d", r, c, k, k)
  }
  if len(p.Covariances) != k {
    return 0, 0, dataError("expected %d covariance matrices, got %d", k, len(p.Covariances))
  }
  for i, c := range p.Covariances {
    if c == nil {
      return 0, 0, dataError("covariance matrix %d is missing", i)
    }
    if n, m := c.Dims(); n != d || m != d {
      return 0, 0, dataError("covariance matrix %d has dimension %dx%d, expected %dx%d", i, n, m, d, d)
    }
  }
  return k, d, nil
}

// Save parameters as .npy arrays together with a serialized copy of the
// full parameter set.
func (p ModelParameters) Export(dir string) error {
  k, d, err := p.Dims(); if err != nil {
    return err
  }
  if err := os.MkdirAll(dir, 0777); err != nil {
    return err
  }
  if err := writeNpy(filepath.Join(dir, emissionsMeansFile), []int{k, d}, denseValues(p.Means)); err != nil {
    return err
  }
  covars := make([]float64, 0, k*d*d)
  for _, c := range p.Covariances {
    covars = append(covars, denseValues(c)...)
  }
  if err := writeNpy(filepath.Join(dir, emissionsCovarsFile), []int{k, d, d}, covars); err != nil {
    return err
  }
  if err := writeNpy(filepath.Join(dir, transitionsFile), []int{k, k}, denseValues(p.Transitions)); err != nil {
    return err
  }
  f, err := os.Create(filepath.Join(dir, modelFile))
  if err != nil {
    return err
  }
  if err := gob.NewEncoder(f).Encode(p); err != nil {
    f.Close()
    return fmt.Errorf("serializing model failed: %w", err)
  }
  return f.Close()
}

func ImportModelParameters(dir string) (ModelParameters, error) {
  p := ModelParameters{}
  f, err := os.Open(filepath.Join(dir, modelFile))
  if err != nil {
    return p, err
  }
  defer f.Close()
  if err := gob.NewDecoder(f).Decode(&p); err != nil {
    return p, fmt.Errorf("reading model from `%s' failed: %w", dir, err)
  }
  if _, _, err := p.Dims(); err != nil {
    return p, err
  }
  return p, nil
}

func denseValues(a mat.Matrix) []float64 {
  n, m := a.Dims()
  r := make([]float64, 0, n*m)
  for i := 0; i < n; i++ {
    for j := 0; j < m; j++ {
      r = append(r, a.At(i, j))
    }
  }
  return r
}
