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

import   "fmt"
import   "image/color"
import   "log"
import   "os"

import   "github.com/pborman/getopt"

import . "github.com/WeiXie03/SimpleAGA"

import   "gonum.org/v1/plot"
import   "gonum.org/v1/plot/plotter"
import   "gonum.org/v1/plot/vg"

/* -------------------------------------------------------------------------- */

type Config struct {
  Verbose int
  BinSize int
  Policy  MissingBinPolicy
  Genome  string
  Width   int
}

/* i/o
 * -------------------------------------------------------------------------- */

func PrintStderr(config Config, level int, format string, args ...interface{}) {
  if config.Verbose >= level {
    fmt.Fprintf(os.Stderr, format, args...)
  }
}

/* -------------------------------------------------------------------------- */

func importBins(config Config, filename, seqname string) ([]float64, []MissingRun) {
  PrintStderr(config, 1, "Opening signal file `%s'... ", filename)
  file, err := OpenSignalFile(filename)
  if err != nil {
    PrintStderr(config, 1, "failed\n")
    log.Fatal(err)
  }
  defer file.Close()
  PrintStderr(config, 1, "done\n")

  genome := file.Genome()
  if config.Genome != "" {
    if genome, err = ReadGenome(config.Genome); err != nil {
      log.Fatal(err)
    }
  }
  PrintStderr(config, 1, "Binning chromosome `%s'... ", seqname)
  bins, missing, err := BinChromosome(genome, seqname, file, config.BinSize, config.Policy)
  if err != nil {
    PrintStderr(config, 1, "failed\n")
    log.Fatal(err)
  }
  PrintStderr(config, 1, "done\n")
  return bins, missing
}

// Observed stretches of the track, missing runs are left as gaps.
func segments(bins []float64, missing []MissingRun, binSize int) []plotter.XYs {
  r    := []plotter.XYs{}
  from := 0
  for i := 0; i <= len(missing); i++ {
    to := len(bins)
    if i < len(missing) {
      to = missing[i].From
    }
    if to > from {
      xy := make(plotter.XYs, to-from)
      for j := from; j < to; j++ {
        xy[j-from].X = float64(j*binSize)
        xy[j-from].Y = bins[j]
      }
      r = append(r, xy)
    }
    if i < len(missing) {
      from = missing[i].To+1
    }
  }
  return r
}

func plotTrack(config Config, filename, seqname, output string) {
  bins, missing := importBins(config, filename, seqname)

  n := 0
  for _, r := range missing {
    n += r.Length()
  }
  p := plot.New()
  p.Title.Text   = fmt.Sprintf("%s (%d of %d bins missing)", seqname, n, len(bins))
  p.X.Label.Text = "position"
  p.Y.Label.Text = "signal"

  for _, xy := range segments(bins, missing, config.BinSize) {
    line, err := plotter.NewLine(xy)
    if err != nil {
      log.Fatal(err)
    }
    line.Color = color.RGBA{R: 31, G: 119, B: 180, A: 255}
    p.Add(line)
  }
  if err := p.Save(vg.Length(config.Width)*vg.Inch, 4*vg.Inch, output); err != nil {
    log.Fatal(err)
  }
  PrintStderr(config, 1, "Wrote plot to `%s'\n", output)
}

/* -------------------------------------------------------------------------- */

func main() {
  config  := Config{}
  options := getopt.New()
  options.SetProgram(fmt.Sprintf("%s", os.Args[0]))

  optBinSize := options.    IntLong("bin-size",       0 ,  200, "bin size in base pairs (default: 200)")
  optPolicy  := options. StringLong("missing-policy", 0 , "any", "a bin is missing if `any' or `all' of its bases are missing (default: any)")
  optGenome  := options. StringLong("genome",         0 ,   "", "chromosome sizes file (default: sizes stored in the signal file)")
  optWidth   := options.    IntLong("width",          0 ,   12, "plot width in inches")
  optVerbose := options.CounterLong("verbose",       'v',       "verbose level [-v or -vv]")
  optHelp    := options.   BoolLong("help",          'h',       "print help")

  options.SetParameters("<TRACK.bw> <CHROMOSOME> <OUTPUT.pdf>")
  options.Parse(os.Args)

  // command options
  if *optHelp {
    options.PrintUsage(os.Stdout)
    os.Exit(0)
  }
  if len(options.Args()) != 3 {
    options.PrintUsage(os.Stderr)
    os.Exit(1)
  }
  if policy, err := ParseMissingBinPolicy(*optPolicy); err != nil {
    options.PrintUsage(os.Stderr)
    os.Exit(1)
  } else {
    config.Policy = policy
  }
  config.Verbose = *optVerbose
  config.BinSize = *optBinSize
  config.Genome  = *optGenome
  config.Width   = *optWidth

  plotTrack(config, options.Args()[0], options.Args()[1], options.Args()[2])
}
