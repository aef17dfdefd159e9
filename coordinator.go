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

import "fmt"
import "log"
import "math/rand"
import "path/filepath"
import "runtime"

import "github.com/pbenner/threadpool"
import "gonum.org/v1/gonum/mat"

/* -------------------------------------------------------------------------- */

type CoordinatorParameters struct {
  // fraction of bins drawn per minibatch
  Fraction          float64
  // length of minibatch windows in bins, zero draws one window per
  // chromosome
  SubsequenceLength int
  Strategy          HandleMissingStrategy
  Threads           int
  // directory for model parameters and posteriors, nothing is saved if
  // empty
  ResultsDir        string
  Logger            *log.Logger
  Rng               *rand.Rand
}

func DefaultCoordinatorParameters() CoordinatorParameters {
  return CoordinatorParameters{
    Fraction: 0.3,
    Strategy: HandleMissingOmit,
    Threads : runtime.NumCPU() }
}

/* -------------------------------------------------------------------------- */

// Prepares binned tracks for training, feeds random minibatches to a
// trainer and maps posteriors back to genomic coordinates.
type Coordinator struct {
  Trainer      Trainer
  Parameters   CoordinatorParameters
  Genome       Genome
  BinSize      int
  sampler      *SubsequenceSampler
  // reduced observations of all usable chromosomes
  observations []ObservationMatrix
  reductions   []Reduction
}

/* constructor
 * -------------------------------------------------------------------------- */

// The trainer may be nil if the coordinator is only used to prepare
// observations and draw minibatches.
func NewCoordinator(trainer Trainer, parameters CoordinatorParameters) (*Coordinator, error) {
  if parameters.Threads < 1 {
    return nil, configError("threads", "must be at least one, got %d", parameters.Threads)
  }
  sampler := NewSubsequenceSampler(parameters.Fraction, parameters.SubsequenceLength, parameters.Rng)
  if err := sampler.validate([]int{0}); err != nil {
    return nil, err
  }
  return &Coordinator{Trainer: trainer, Parameters: parameters, sampler: sampler}, nil
}

/* -------------------------------------------------------------------------- */

// Build observation matrices for all chromosomes in genome order.
// Chromosomes missing from any track or without observed bins are
// skipped with a warning.
func (c *Coordinator) Prepare(tracks []BinnedTrack) error {
  logger := getLogger(c.Parameters.Logger)
  if len(tracks) == 0 {
    return configError("tracks", "at least one track is required")
  }
  genome  := tracks[0].Genome
  binSize := tracks[0].BinSize
  for _, track := range tracks[1:] {
    if track.BinSize != binSize {
      return configError("bin size", "track `%s' has bin size %d, expected %d", track.Name, track.BinSize, binSize)
    }
  }
  // candidate chromosomes
  seqnames := []string{}
  matrices := []ObservationMatrix{}
  for _, seqname := range genome.Seqnames {
    sequences := make([][]float64, len(tracks))
    missing   := ""
    for j, track := range tracks {
      if sequences[j] = track.Data[seqname]; sequences[j] == nil {
        missing = track.Name
        break
      }
    }
    if missing != "" {
      logger.Printf("warning: skipping chromosome `%s' (no data in track `%s')", seqname, missing)
      continue
    }
    m, err := NewObservationMatrix(sequences); if err != nil {
      return fmt.Errorf("chromosome `%s': %w", seqname, err)
    }
    seqnames = append(seqnames, seqname)
    matrices = append(matrices, m)
  }
  reduced  := make([]ObservationMatrix, len(matrices))
  omitted  := make([][]int, len(matrices))
  pool     := threadpool.New(c.Parameters.Threads, 100*c.Parameters.Threads)
  g        := pool.NewJobGroup()
  if err := pool.AddRangeJob(0, len(matrices), g, func(i int, pool threadpool.ThreadPool, erf func() error) error {
    if erf() != nil {
      return nil
    }
    r, o, err := HandleMissing(c.Parameters.Strategy, matrices[i]); if err != nil {
      return err
    }
    reduced[i], omitted[i] = r, o
    return nil
  }); err != nil {
    return err
  }
  if err := pool.Wait(g); err != nil {
    return err
  }
  c.Genome       = genome
  c.BinSize      = binSize
  c.observations = nil
  c.reductions   = nil
  for i, seqname := range seqnames {
    if reduced[i].Rows == 0 {
      logger.Printf("warning: skipping chromosome `%s' (all bins are missing)", seqname)
      continue
    }
    c.observations = append(c.observations, reduced[i])
    c.reductions   = append(c.reductions, Reduction{seqname, matrices[i].Rows, omitted[i]})
  }
  if len(c.observations) == 0 {
    return configError("training sequences", "no chromosome has observed bins")
  }
  return nil
}

// Chromosomes used for training together with their omitted bins.
func (c *Coordinator) Reductions() []Reduction {
  return c.reductions
}

func (c *Coordinator) Observations() []ObservationMatrix {
  return c.observations
}

/* -------------------------------------------------------------------------- */

// Draw the windows of a minibatch. Windows refer to rows of the reduced
// observations.
func (c *Coordinator) SampleWindows() ([]Minibatch, error) {
  if len(c.observations) == 0 {
    return nil, configError("training sequences", "no training sequences available")
  }
  lengths := make([]int, len(c.observations))
  for i, m := range c.observations {
    lengths[i] = m.Rows
  }
  windows, err := c.sampler.Sample(lengths); if err != nil {
    return nil, err
  }
  if len(windows) == 0 {
    return nil, configError("minibatch fraction", "minibatch is empty, fraction %v is too small", c.sampler.Fraction)
  }
  return windows, nil
}

// Genomic interval [from, to) spanned by a window. The interval includes
// omitted bins that lie between the rows of the window.
func (c *Coordinator) WindowInterval(w Minibatch) (string, int, int) {
  r    := c.reductions[w.Sequence]
  from := r.Original(w.From)*c.BinSize
  to   := (r.Original(w.To-1)+1)*c.BinSize
  if l, err := c.Genome.SeqLength(r.Seqname); err == nil {
    to = iMin(to, l)
  }
  return r.Seqname, from, to
}

// Draw a minibatch and concatenate its windows. The lengths vector is nil
// if the minibatch consists of a single window.
func (c *Coordinator) NextMinibatch() (*mat.Dense, []int, error) {
  windows, err := c.SampleWindows(); if err != nil {
    return nil, nil, err
  }
  n := 0
  for _, w := range windows {
    n += w.Length()
  }
  cols   := c.observations[0].Cols
  values := make([]float64, 0, n*cols)
  result := make([]int, len(windows))
  for i, w := range windows {
    values    = append(values, c.observations[w.Sequence].Slice(w.From, w.To).Values...)
    result[i] = w.Length()
  }
  if len(windows) == 1 {
    result = nil
  }
  return mat.NewDense(n, cols, values), result, nil
}

// Fit the trainer on a single minibatch.
func (c *Coordinator) Step() error {
  if c.Trainer == nil {
    return configError("trainer", "no trainer given")
  }
  observations, lengths, err := c.NextMinibatch(); if err != nil {
    return err
  }
  if err := c.Trainer.Fit(observations, lengths); err != nil {
    return fmt.Errorf("fitting minibatch failed: %w", err)
  }
  return nil
}

func (c *Coordinator) Train(iterations int) error {
  if iterations < 1 {
    return configError("iterations", "must be at least one, got %d", iterations)
  }
  for i := 0; i < iterations; i++ {
    if err := c.Step(); err != nil {
      return fmt.Errorf("iteration %d: %w", i+1, err)
    }
  }
  return nil
}

/* -------------------------------------------------------------------------- */

// Posterior state probabilities of all bins of the training chromosomes.
func (c *Coordinator) Posteriors() (PosteriorTable, error) {
  if c.Trainer == nil {
    return PosteriorTable{}, configError("trainer", "no trainer given")
  }
  if len(c.observations) == 0 {
    return PosteriorTable{}, configError("training sequences", "no training sequences available")
  }
  var table PosteriorTable
  for i, m := range c.observations {
    p, err := c.Trainer.PredictProba(m.Dense(), nil)
    if err != nil {
      return PosteriorTable{}, fmt.Errorf("predicting `%s' failed: %w", c.reductions[i].Seqname, err)
    }
    if p == nil {
      return PosteriorTable{}, fmt.Errorf("predicting `%s' failed: trainer returned no posteriors", c.reductions[i].Seqname)
    }
    if i == 0 {
      _, k := p.Dims()
      table = NewPosteriorTable(k)
    }
    if err := table.Append(c.Genome, c.BinSize, c.reductions[i], p); err != nil {
      return PosteriorTable{}, err
    }
  }
  return table, nil
}

// Save model parameters to the results directory.
func (c *Coordinator) Save() error {
  if c.Parameters.ResultsDir == "" {
    return nil
  }
  if c.Trainer == nil {
    return configError("trainer", "no trainer given")
  }
  p, err := c.Trainer.Parameters(); if err != nil {
    return err
  }
  return p.Export(c.Parameters.ResultsDir)
}

// Prepare the tracks, train for the given number of iterations and
// compute posteriors. If a results directory is set, the model and the
// posterior table are saved.
func (c *Coordinator) Run(tracks []BinnedTrack, iterations int) (PosteriorTable, error) {
  if err := c.Prepare(tracks); err != nil {
    return PosteriorTable{}, err
  }
  if err := c.Train(iterations); err != nil {
    return PosteriorTable{}, err
  }
  table, err := c.Posteriors(); if err != nil {
    return PosteriorTable{}, err
  }
  if c.Parameters.ResultsDir == "" {
    return table, nil
  }
  if err := c.Save(); err != nil {
    return PosteriorTable{}, err
  }
  if err := table.ExportTable(filepath.Join(c.Parameters.ResultsDir, "posteriors.tsv"), false, false); err != nil {
    return PosteriorTable{}, err
  }
  return table, nil
}
