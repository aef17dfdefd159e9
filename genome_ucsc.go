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

package simpleaga

/* -------------------------------------------------------------------------- */

import "database/sql"
import "fmt"
import "sort"
import "strconv"
import "strings"

import _ "github.com/go-sql-driver/mysql"

/* -------------------------------------------------------------------------- */

const ucscMySQLServer = "genome@tcp(genome-mysql.soe.ucsc.edu:3306)"

/* import chromosome sizes from ucsc
 * -------------------------------------------------------------------------- */

// Import chromosome sizes of the given assembly (e.g. hg38) from the
// chromInfo table of the public UCSC MySQL server. Unplaced, random and
// alternative contigs are dropped if primaryOnly is set.
func ImportGenomeFromUCSC(assembly string, primaryOnly bool) (Genome, error) {
  /* open connection */
  db, err := sql.Open("mysql", fmt.Sprintf("%s/%s", ucscMySQLServer, assembly))
  if err != nil {
    return Genome{}, err
  }
  defer db.Close()

  if err := db.Ping(); err != nil {
    return Genome{}, err
  }
  return ImportGenomeFromDB(db, primaryOnly)
}

// Import chromosome sizes from a database that provides a UCSC style
// chromInfo table.
func ImportGenomeFromDB(db *sql.DB, primaryOnly bool) (Genome, error) {
  /* variables for storing a single database row */
  var i_seqname string
  var i_length  int

  seqnames := []string{}
  lengths  := []int{}

  /* receive data */
  rows, err := db.Query("SELECT chrom, size FROM chromInfo")
  if err != nil {
    return Genome{}, err
  }
  defer rows.Close()
  for rows.Next() {
    if err := rows.Scan(&i_seqname, &i_length); err != nil {
      return Genome{}, err
    }
    if primaryOnly && !isPrimaryChromosome(i_seqname) {
      continue
    }
    seqnames = append(seqnames, i_seqname)
    lengths  = append(lengths,  i_length)
  }
  if err := rows.Err(); err != nil {
    return Genome{}, err
  }
  genome := NewGenome(seqnames, lengths)
  genome.sort()
  if err := genome.validate(); err != nil {
    return Genome{}, err
  }
  return genome, nil
}

/* -------------------------------------------------------------------------- */

func isPrimaryChromosome(seqname string) bool {
  return !strings.Contains(seqname, "_") && !strings.HasPrefix(seqname, "chrUn")
}

// Compare chromosome names so that chr2 precedes chr10. Names without a
// numeric suffix follow all numbered chromosomes.
func seqnameLess(a, b string) bool {
  na, ea := seqnameNumber(a)
  nb, eb := seqnameNumber(b)
  switch {
  case ea && eb:
    if na != nb {
      return na < nb
    }
  case ea:
    return true
  case eb:
    return false
  }
  return a < b
}

func seqnameNumber(seqname string) (int, bool) {
  s := strings.TrimPrefix(seqname, "chr")
  n, err := strconv.Atoi(s)
  return n, err == nil
}

type genomeSorter Genome

func (obj genomeSorter) Len() int {
  return len(obj.Seqnames)
}

func (obj genomeSorter) Less(i, j int) bool {
  return seqnameLess(obj.Seqnames[i], obj.Seqnames[j])
}

func (obj genomeSorter) Swap(i, j int) {
  obj.Seqnames[i], obj.Seqnames[j] = obj.Seqnames[j], obj.Seqnames[i]
  obj.Lengths [i], obj.Lengths [j] = obj.Lengths [j], obj.Lengths [i]
}

func (genome Genome) sort() {
  sort.Stable(genomeSorter(genome))
}
