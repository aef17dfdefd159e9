/* Copyright (C) 2016 Philipp Benner
 * Copyright (C) 2024 Wei Xie
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

import   "github.com/pborman/getopt"

import . "github.com/WeiXie03/SimpleAGA"

/* -------------------------------------------------------------------------- */

// Chromosome sizes stored in a signal file, or the chromInfo table of a
// UCSC assembly.
func getGenome(source string, ucsc, primaryOnly bool) Genome {
  if ucsc {
    genome, err := ImportGenomeFromUCSC(source, primaryOnly)
    if err != nil {
      log.Fatal(err)
    }
    return genome
  }
  file, err := OpenSignalFile(source)
  if err != nil {
    log.Fatal(err)
  }
  defer file.Close()
  return file.Genome()
}

func main() {
  options := getopt.New()
  options.SetProgram(fmt.Sprintf("%s", os.Args[0]))

  optUCSC        := options.  BoolLong("ucsc",         0 , "SOURCE is a UCSC assembly name (e.g. hg38)")
  optPrimaryOnly := options.  BoolLong("primary-only", 0 , "drop alternative, random and unplaced contigs from UCSC genomes")
  optHelp        := options.  BoolLong("help",        'h', "print help")

  options.SetParameters("<SOURCE> [OUTPUT]")
  options.Parse(os.Args)

  if *optHelp {
    options.PrintUsage(os.Stdout)
    os.Exit(0)
  }
  if len(options.Args()) != 1 && len(options.Args()) != 2 {
    options.PrintUsage(os.Stderr)
    os.Exit(1)
  }
  genome := getGenome(options.Args()[0], *optUCSC, *optPrimaryOnly)

  if len(options.Args()) == 2 {
    if err := genome.WriteGenome(options.Args()[1]); err != nil {
      log.Fatal(err)
    }
  } else {
    if err := genome.Write(os.Stdout); err != nil {
      log.Fatal(err)
    }
  }
}
