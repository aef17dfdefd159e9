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
import   "log"
import   "os"
import   "path/filepath"
import   "runtime"
import   "strings"

import   "github.com/pborman/getopt"

import . "github.com/WeiXie03/SimpleAGA"
import   "github.com/WeiXie03/SimpleAGA/lib/progress"

/* -------------------------------------------------------------------------- */

type Config struct {
  Verbose        int
  BinSize        int
  Threads        int
  Policy         MissingBinPolicy
  UCSC           bool
  PrimaryOnly    bool
  Chromosomes  []string
  ExportBigWig   bool
  ExportBedGraph bool
}

/* i/o
 * -------------------------------------------------------------------------- */

func PrintStderr(config Config, level int, format string, args ...interface{}) {
  if config.Verbose >= level {
    fmt.Fprintf(os.Stderr, format, args...)
  }
}

/* -------------------------------------------------------------------------- */

func importGenome(config Config, name string) Genome {
  var genome Genome
  var err    error
  if config.UCSC {
    PrintStderr(config, 1, "Importing genome `%s' from UCSC... ", name)
    genome, err = ImportGenomeFromUCSC(name, config.PrimaryOnly)
  } else {
    PrintStderr(config, 1, "Reading genome `%s'... ", name)
    genome, err = ReadGenome(name)
  }
  if err != nil {
    PrintStderr(config, 1, "failed\n")
    log.Fatal(err)
  }
  PrintStderr(config, 1, "done\n")
  if len(config.Chromosomes) > 0 {
    genome = genome.Filter(config.Chromosomes)
  }
  if genome.Length() == 0 {
    log.Fatal("genome does not contain any chromosomes")
  }
  return genome
}

func binTracks(config Config, genome Genome, filenames []string) ([]BinnedTrack, MissingBins) {
  parameters := DefaultBinningEngineParameters()
  parameters.BinSize = config.BinSize
  parameters.Threads = config.Threads
  parameters.Policy  = config.Policy
  if config.Verbose >= 1 {
    p := progress.New(len(filenames)*genome.Length(), 100)
    p.Label = "binning"
    parameters.Progress = func(done, total int) {
      p.PrintStderr(done)
    }
  }
  PrintStderr(config, 1, "Opening %d signal files... ", len(filenames))
  engine, err := NewBinningEngine(genome, filenames, parameters)
  if err != nil {
    PrintStderr(config, 1, "failed\n")
    log.Fatal(err)
  }
  defer engine.Close()
  PrintStderr(config, 1, "done\n")

  tracks, missing, err := engine.Run()
  if err != nil {
    log.Fatal(err)
  }
  return tracks, missing
}

func saveResults(config Config, dir string, tracks []BinnedTrack, missing MissingBins) {
  PrintStderr(config, 1, "Writing observations to `%s'... ", dir)
  if err := ExportObservations(dir, tracks); err != nil {
    PrintStderr(config, 1, "failed\n")
    log.Fatal(err)
  }
  if err := missing.ExportTable(filepath.Join(dir, "missing_bins.csv"), false); err != nil {
    PrintStderr(config, 1, "failed\n")
    log.Fatal(err)
  }
  PrintStderr(config, 1, "done\n")

  for _, track := range tracks {
    if config.Verbose >= 1 {
      PrintStderr(config, 1, "Track `%s': %v\n", track.Name, track.Summary())
    }
    if config.ExportBigWig {
      filename := filepath.Join(dir, track.Name+".bw")
      PrintStderr(config, 1, "Writing track `%s'... ", filename)
      if err := ExportBigWig(filename, track, DefaultBigWigParameters()); err != nil {
        PrintStderr(config, 1, "failed\n")
        log.Fatal(err)
      }
      PrintStderr(config, 1, "done\n")
    }
    if config.ExportBedGraph {
      filename := filepath.Join(dir, track.Name+".bedGraph.gz")
      PrintStderr(config, 1, "Writing track `%s'... ", filename)
      if err := track.ExportBedGraph(filename, true); err != nil {
        PrintStderr(config, 1, "failed\n")
        log.Fatal(err)
      }
      PrintStderr(config, 1, "done\n")
    }
  }
}

/* -------------------------------------------------------------------------- */

func main() {
  config  := Config{}
  options := getopt.New()
  options.SetProgram(fmt.Sprintf("%s", os.Args[0]))

  optBinSize        := options.    IntLong("bin-size",        0 ,  200, "bin size in base pairs (default: 200)")
  optThreads        := options.    IntLong("threads",         0 , runtime.NumCPU(), "number of threads")
  optPolicy         := options. StringLong("missing-policy",  0 , "any", "a bin is missing if `any' or `all' of its bases are missing (default: any)")
  optUCSC           := options.   BoolLong("ucsc",            0 ,     "GENOME is a UCSC assembly name (e.g. hg38), chromosome sizes are downloaded")
  optPrimaryOnly    := options.   BoolLong("primary-only",    0 ,     "drop alternative, random and unplaced contigs from UCSC genomes")
  optChromosomes    := options. StringLong("chromosomes",     0 , "",  "comma separated list of chromosomes to bin")
  optExportBigWig   := options.   BoolLong("export-bigwig",   0 ,     "save binned tracks as bigWig files")
  optExportBedGraph := options.   BoolLong("export-bedgraph", 0 ,     "save binned tracks as gzipped bedGraph files")
  optVerbose        := options.CounterLong("verbose",        'v',     "verbose level [-v or -vv]")
  optHelp           := options.   BoolLong("help",           'h',     "print help")

  options.SetParameters("<GENOME> <OUTPUT_DIR> <TRACK1.bw> [TRACK2.bw ...]")
  options.Parse(os.Args)

  // command options
  if *optHelp {
    options.PrintUsage(os.Stdout)
    os.Exit(0)
  }
  if len(options.Args()) < 3 {
    options.PrintUsage(os.Stderr)
    os.Exit(1)
  }
  if policy, err := ParseMissingBinPolicy(*optPolicy); err != nil {
    options.PrintUsage(os.Stderr)
    os.Exit(1)
  } else {
    config.Policy = policy
  }
  if *optChromosomes != "" {
    config.Chromosomes = strings.Split(*optChromosomes, ",")
  }
  config.Verbose        = *optVerbose
  config.BinSize        = *optBinSize
  config.Threads        = *optThreads
  config.UCSC           = *optUCSC
  config.PrimaryOnly    = *optPrimaryOnly
  config.ExportBigWig   = *optExportBigWig
  config.ExportBedGraph = *optExportBedGraph

  genome := importGenome(config, options.Args()[0])
  dir    := options.Args()[1]

  tracks, missing := binTracks(config, genome, options.Args()[2:])
  saveResults(config, dir, tracks, missing)
}
