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

package main

/* -------------------------------------------------------------------------- */

import   "bufio"
import   "fmt"
import   "log"
import   "math/rand"
import   "os"
import   "strconv"
import   "time"

import   "github.com/pborman/getopt"

import . "github.com/WeiXie03/SimpleAGA"

/* -------------------------------------------------------------------------- */

type Config struct {
  Verbose           int
  BinSize           int
  Fraction          float64
  SubsequenceLength int
  Minibatches       int
  Seed              int64
}

/* i/o
 * -------------------------------------------------------------------------- */

func PrintStderr(config Config, level int, format string, args ...interface{}) {
  if config.Verbose >= level {
    fmt.Fprintf(os.Stderr, format, args...)
  }
}

/* -------------------------------------------------------------------------- */

// Print minibatch windows as BED intervals in genomic coordinates. Windows
// are drawn on the observations after omitting missing bins, so an interval
// may contain omitted bins.
func sagaMinibatch(config Config, genomeFilename, dir string) {
  PrintStderr(config, 1, "Reading genome `%s'... ", genomeFilename)
  genome, err := ReadGenome(genomeFilename)
  if err != nil {
    PrintStderr(config, 1, "failed\n")
    log.Fatal(err)
  }
  PrintStderr(config, 1, "done\n")

  PrintStderr(config, 1, "Reading observations from `%s'... ", dir)
  tracks, err := ImportObservations(dir, genome, config.BinSize, nil)
  if err != nil {
    PrintStderr(config, 1, "failed\n")
    log.Fatal(err)
  }
  PrintStderr(config, 1, "done\n")

  parameters := DefaultCoordinatorParameters()
  parameters.Fraction          = config.Fraction
  parameters.SubsequenceLength = config.SubsequenceLength
  parameters.Rng               = rand.New(rand.NewSource(config.Seed))

  c, err := NewCoordinator(nil, parameters)
  if err != nil {
    log.Fatal(err)
  }
  if err := c.Prepare(tracks); err != nil {
    log.Fatal(err)
  }
  for _, r := range c.Reductions() {
    PrintStderr(config, 2, "Chromosome `%s': %d of %d bins retained\n", r.Seqname, r.Retained(), r.NBins)
  }
  writer := bufio.NewWriter(os.Stdout)
  defer writer.Flush()

  for k := 0; k < config.Minibatches; k++ {
    windows, err := c.SampleWindows()
    if err != nil {
      log.Fatal(err)
    }
    for _, w := range windows {
      seqname, from, to := c.WindowInterval(w)
      fmt.Fprintf(writer, "%s\t%d\t%d\tminibatch_%d\n", seqname, from, to, k+1)
    }
  }
}

/* -------------------------------------------------------------------------- */

func main() {
  config  := Config{}
  options := getopt.New()
  options.SetProgram(fmt.Sprintf("%s", os.Args[0]))

  optBinSize     := options.    IntLong("bin-size",             0 , 200, "bin size used for the observations (default: 200)")
  optFraction    := options. StringLong("minibatch-frac",       0 , "0.3", "fraction of bins drawn per minibatch (default: 0.3)")
  optChunkSize   := options.    IntLong("minibatch-chunk-size", 0 ,   0, "length of minibatch windows in bins, 0 draws one window per chromosome")
  optMinibatches := options.    IntLong("minibatches",          0 ,   1, "number of minibatches to draw")
  optSeed        := options.    IntLong("seed",                 0 ,  -1, "random seed (default: current time)")
  optVerbose     := options.CounterLong("verbose",             'v',      "verbose level [-v or -vv]")
  optHelp        := options.   BoolLong("help",                'h',      "print help")

  options.SetParameters("<GENOME> <OBSERVATIONS_DIR>")
  options.Parse(os.Args)

  // command options
  if *optHelp {
    options.PrintUsage(os.Stdout)
    os.Exit(0)
  }
  if len(options.Args()) != 2 {
    options.PrintUsage(os.Stderr)
    os.Exit(1)
  }
  if v, err := strconv.ParseFloat(*optFraction, 64); err != nil {
    log.Fatal(err)
  } else {
    config.Fraction = v
  }
  if *optSeed < 0 {
    config.Seed = time.Now().UnixNano()
  } else {
    config.Seed = int64(*optSeed)
  }
  config.Verbose           = *optVerbose
  config.BinSize           = *optBinSize
  config.SubsequenceLength = *optChunkSize
  config.Minibatches       = *optMinibatches

  sagaMinibatch(config, options.Args()[0], options.Args()[1])
}
