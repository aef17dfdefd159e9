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
import "runtime"
import "sync"

import "github.com/pbenner/threadpool"

/* -------------------------------------------------------------------------- */

type BinningEngineParameters struct {
  BinSize  int
  Threads  int
  Policy   MissingBinPolicy
  Logger   *log.Logger
  // called after each finished (track, chromosome) pair
  Progress func(done, total int)
}

func DefaultBinningEngineParameters() BinningEngineParameters {
  return BinningEngineParameters{
    BinSize: 200,
    Threads: runtime.NumCPU(),
    Policy : BinMissingIfAny }
}

func (p BinningEngineParameters) validate() error {
  if err := checkBinSize(p.BinSize); err != nil {
    return err
  }
  if p.Threads < 1 {
    return configError("threads", "must be at least one, got %d", p.Threads)
  }
  return nil
}

/* -------------------------------------------------------------------------- */

type signalHandle struct {
  name string
  // nil if the file could not be found
  file SignalFile
  mtx  sync.Mutex
}

// Bins a set of signal files over all chromosomes of a genome. Each file
// is opened once and reads on the same file are serialized, while
// different (track, chromosome) pairs are processed concurrently.
type BinningEngine struct {
  Genome     Genome
  Parameters BinningEngineParameters
  handles  []*signalHandle
  pool       threadpool.ThreadPool
}

/* constructor
 * -------------------------------------------------------------------------- */

// Open all signal files. Files that do not exist are reported as warnings
// and yield tracks without data, any other failure closes the files
// already opened.
func NewBinningEngine(genome Genome, filenames []string, parameters BinningEngineParameters) (*BinningEngine, error) {
  if err := parameters.validate(); err != nil {
    return nil, err
  }
  logger  := getLogger(parameters.Logger)
  pool    := threadpool.New(parameters.Threads, 100*parameters.Threads)
  handles := make([]*signalHandle, len(filenames))
  for i, filename := range filenames {
    handles[i] = &signalHandle{name: trackName(filename)}
  }
  g   := pool.NewJobGroup()
  err := pool.AddRangeJob(0, len(filenames), g, func(i int, pool threadpool.ThreadPool, erf func() error) error {
    if erf() != nil {
      return nil
    }
    file, err := OpenSignalFile(filenames[i])
    if errors.Is(err, os.ErrNotExist) {
      logger.Printf("warning: signal file `%s' does not exist, track `%s' has no data", filenames[i], handles[i].name)
      return nil
    }
    if err != nil {
      return err
    }
    handles[i].file = file
    return nil
  })
  if werr := pool.Wait(g); err == nil {
    err = werr
  }
  engine := &BinningEngine{Genome: genome, Parameters: parameters, handles: handles, pool: pool}
  if err != nil {
    engine.Close()
    return nil, err
  }
  return engine, nil
}

// Create an engine for signal files that are already open. The engine
// takes ownership of the files.
func NewBinningEngineFromFiles(genome Genome, files []SignalFile, parameters BinningEngineParameters) (*BinningEngine, error) {
  if err := parameters.validate(); err != nil {
    for _, file := range files {
      file.Close()
    }
    return nil, err
  }
  handles := make([]*signalHandle, len(files))
  for i, file := range files {
    handles[i] = &signalHandle{name: file.Name(), file: file}
  }
  pool := threadpool.New(parameters.Threads, 100*parameters.Threads)
  return &BinningEngine{Genome: genome, Parameters: parameters, handles: handles, pool: pool}, nil
}

/* -------------------------------------------------------------------------- */

func (engine *BinningEngine) Tracks() []string {
  r := make([]string, len(engine.handles))
  for i, h := range engine.handles {
    r[i] = h.name
  }
  return r
}

func (engine *BinningEngine) binUnit(h *signalHandle, seqname string, length int) ([]float64, error) {
  acc, err := NewBinAccumulator(length, engine.Parameters.BinSize); if err != nil {
    return nil, err
  }
  h.mtx.Lock()
  err = h.file.QueryRecords(seqname, length, acc.Add)
  h.mtx.Unlock()
  if err != nil {
    return nil, fmt.Errorf("querying `%s' from `%s' failed: %w", seqname, h.name, err)
  }
  return acc.Means(engine.Parameters.Policy), nil
}

// Bin all tracks over all chromosomes. Tracks are returned in input order
// and the table of missing bins is ordered by track first and chromosome
// second. Chromosomes missing from a signal file are logged and left out
// of the corresponding track.
func (engine *BinningEngine) Run() ([]BinnedTrack, MissingBins, error) {
  logger  := getLogger(engine.Parameters.Logger)
  genome  := engine.Genome
  nt, nc  := len(engine.handles), genome.Length()
  results := make([][]float64,    nt*nc)
  runs    := make([][]MissingRun, nt*nc)

  var mtx sync.Mutex
  done := 0
  progress := func() {
    if engine.Parameters.Progress == nil {
      return
    }
    mtx.Lock()
    defer mtx.Unlock()
    done++
    engine.Parameters.Progress(done, nt*nc)
  }
  g   := engine.pool.NewJobGroup()
  err := engine.pool.AddRangeJob(0, nt*nc, g, func(k int, pool threadpool.ThreadPool, erf func() error) error {
    if erf() != nil {
      return nil
    }
    defer progress()
    h       := engine.handles[k/nc]
    seqname := genome.Seqnames[k%nc]
    if h.file == nil {
      return nil
    }
    bins, err := engine.binUnit(h, seqname, genome.Lengths[k%nc])
    if err != nil {
      if isDataError(err) {
        logger.Printf("warning: %v", err)
        return nil
      }
      return err
    }
    results[k] = bins
    runs   [k] = newMissingRuns(h.name, seqname, bins)
    return nil
  })
  if werr := engine.pool.Wait(g); err == nil {
    err = werr
  }
  if err != nil {
    return nil, nil, err
  }
  tracks  := make([]BinnedTrack, nt)
  missing := MissingBins{}
  for t := 0; t < nt; t++ {
    tracks[t] = EmptyBinnedTrack(engine.handles[t].name, genome, engine.Parameters.BinSize)
    for c := 0; c < nc; c++ {
      if bins := results[t*nc+c]; bins != nil {
        tracks[t].Data[genome.Seqnames[c]] = bins
        missing = append(missing, runs[t*nc+c]...)
      }
    }
  }
  return tracks, missing, nil
}

// Close all signal files. It is safe to call Close more than once.
func (engine *BinningEngine) Close() error {
  var result error
  for _, h := range engine.handles {
    h.mtx.Lock()
    if h.file != nil {
      if err := h.file.Close(); err != nil && result == nil {
        result = fmt.Errorf("closing `%s' failed: %w", h.name, err)
      }
      h.file = nil
    }
    h.mtx.Unlock()
  }
  return result
}
