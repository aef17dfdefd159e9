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
import   "testing"

/* -------------------------------------------------------------------------- */

func TestBinner1(t *testing.T) {
  x := []float64{0, nan, 0, 1, 2, 3, nan, nan, 0, 1}

  if r, err := BinSequence(x, 2, BinMissingIfAny); err != nil {
    t.Fatal(err)
  } else
  if !equalFloat64s(r, []float64{nan, 0.5, 2.5, nan, 0.5}) {
    t.Errorf("TestBinner1 failed: %v", r)
  }
  if r, err := BinSequence(x, 2, BinMissingIfAll); err != nil {
    t.Fatal(err)
  } else
  if !equalFloat64s(r, []float64{0, 0.5, 2.5, nan, 0.5}) {
    t.Errorf("TestBinner1 failed: %v", r)
  }
}

func TestBinner2(t *testing.T) {
  // last bin covers a single base
  x := []float64{1, 1, 2, 2, 3, 3, 7}

  r, err := BinSequence(x, 2, BinMissingIfAny)
  if err != nil {
    t.Fatal(err)
  }
  if !equalFloat64s(r, []float64{1, 2, 3, 7}) {
    t.Errorf("TestBinner2 failed: %v", r)
  }
  r, err = BinSequence(x, 3, BinMissingIfAny)
  if err != nil {
    t.Fatal(err)
  }
  if !equalFloat64s(r, []float64{4.0/3.0, 8.0/3.0, 7}) {
    t.Errorf("TestBinner2 failed: %v", r)
  }
  r, _ = BinSequence([]float64{}, 3, BinMissingIfAny)
  if len(r) != 0 {
    t.Error("TestBinner2 failed!")
  }
}

func TestBinner3(t *testing.T) {
  for _, binSize := range []int{0, -1} {
    if _, err := BinSequence([]float64{1, 2}, binSize, BinMissingIfAny); !errors.Is(err, ErrConfig) {
      t.Error("TestBinner3 failed!")
    }
  }
}

func TestBinner4(t *testing.T) {
  // records given as intervals, partially outside of the chromosome
  acc, err := NewBinAccumulator(10, 4)
  if err != nil {
    t.Fatal(err)
  }
  acc.Add(-5,  2, 1.0)
  acc.Add( 2,  6, 3.0)
  acc.Add( 6,  7, nan)
  acc.Add( 8, 20, 5.0)

  if acc.NumberOfBins() != 3 {
    t.Error("TestBinner4 failed!")
  }
  if r := acc.Means(BinMissingIfAny); !equalFloat64s(r, []float64{2, nan, 5}) {
    t.Errorf("TestBinner4 failed: %v", r)
  }
  if r := acc.Means(BinMissingIfAll); !equalFloat64s(r, []float64{2, 3, 5}) {
    t.Errorf("TestBinner4 failed: %v", r)
  }
}

func TestBinner5(t *testing.T) {
  genome := NewGenome([]string{"chr1", "chr2"}, []int{10, 4})
  signal, err := NewMemorySignal("test", genome, [][]float64{
    {0, nan, 0, 1, 2, 3, nan, nan, 0, 1}, nil })
  if err != nil {
    t.Fatal(err)
  }
  bins, runs, err := BinChromosome(genome, "chr1", signal, 2, BinMissingIfAny)
  if err != nil {
    t.Fatal(err)
  }
  if !equalFloat64s(bins, []float64{nan, 0.5, 2.5, nan, 0.5}) {
    t.Error("TestBinner5 failed!")
  }
  if len(runs) != 2 || runs[0] != (MissingRun{"test", "chr1", 0, 0}) || runs[1] != (MissingRun{"test", "chr1", 3, 3}) {
    t.Errorf("TestBinner5 failed: %v", runs)
  }
  // chromosome without data in the signal file
  if _, _, err := BinChromosome(genome, "chr2", signal, 2, BinMissingIfAny); !errors.Is(err, ErrSequenceNotFound) || errors.Is(err, ErrConfig) {
    t.Error("TestBinner5 failed!")
  }
  // chromosome without size
  if _, _, err := BinChromosome(genome, "chr3", signal, 2, BinMissingIfAny); !errors.Is(err, ErrConfig) {
    t.Error("TestBinner5 failed!")
  }
  // invalid bin size
  if _, _, err := BinChromosome(genome, "chr1", signal, 0, BinMissingIfAny); !errors.Is(err, ErrConfig) {
    t.Error("TestBinner5 failed!")
  }
}

func TestBinner6(t *testing.T) {
  if p, err := ParseMissingBinPolicy("ALL"); err != nil || p != BinMissingIfAll {
    t.Error("TestBinner6 failed!")
  }
  if _, err := ParseMissingBinPolicy("some"); !errors.Is(err, ErrConfig) {
    t.Error("TestBinner6 failed!")
  }
  if BinMissingIfAny.String() != "any" {
    t.Error("TestBinner6 failed!")
  }
}
