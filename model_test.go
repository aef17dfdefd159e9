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

import   "errors"
import   "path/filepath"
import   "testing"

import   "gonum.org/v1/gonum/mat"

/* -------------------------------------------------------------------------- */

func TestModel1(t *testing.T) {
  p, _ := (&testTrainer{}).Parameters()
  dir  := t.TempDir()
  if err := p.Export(dir); err != nil {
    t.Fatal(err)
  }
  shape, data, err := readNpy(filepath.Join(dir, "emissions_covars.npy"))
  if err != nil {
    t.Fatal(err)
  }
  if !equalInts(shape, []int{2, 2, 2}) || !equalFloat64s(data, []float64{1, 0, 0, 1, 2, 0, 0, 2}) {
    t.Errorf("TestModel1 failed: %v %v", shape, data)
  }
  shape, data, err = readNpy(filepath.Join(dir, "transitions.npy"))
  if err != nil {
    t.Fatal(err)
  }
  if !equalInts(shape, []int{2, 2}) || !equalFloat64s(data, []float64{0.9, 0.1, 0.2, 0.8}) {
    t.Errorf("TestModel1 failed: %v %v", shape, data)
  }
  r, err := ImportModelParameters(dir)
  if err != nil {
    t.Fatal(err)
  }
  if !mat.Equal(r.Means, p.Means) || !mat.Equal(r.Covariances[1], p.Covariances[1]) {
    t.Error("TestModel1 failed!")
  }
}

func TestModel2(t *testing.T) {
  p, _ := (&testTrainer{}).Parameters()
  p.Transitions = mat.NewDense(1, 2, nil)
  if _, _, err := p.Dims(); !errors.Is(err, ErrData) {
    t.Error("TestModel2 failed!")
  }
  p, _ = (&testTrainer{}).Parameters()
  p.Covariances = p.Covariances[:1]
  if err := p.Export(t.TempDir()); !errors.Is(err, ErrData) {
    t.Error("TestModel2 failed!")
  }
}
