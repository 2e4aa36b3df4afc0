// Package domain models the NY Times COVID-19 daily case and death series.
//
// # Data Source
//
// The New York Times publishes cumulative counts as two CSV files in
// https://github.com/nytimes/covid-19-data, regenerated daily:
//
//	us-states.csv    date,state,fips,cases,deaths
//	us-counties.csv  date,county,state,fips,cases,deaths
//
// Dates are ISO calendar dates ("2020-03-01"). Counts are cumulative since the
// first reported case, so a zero or empty cell means "not yet reported" rather
// than "no change". FIPS codes are empty for aggregate geographies such as
// "New York City" or "Unknown" counties, and deaths are occasionally blank.
// Empty cells are kept as null [Count] values instead of being coerced to zero.
//
// # Regions
//
// Every row is keyed by (region, date):
//
//	state rows:   "Washington"
//	county rows:  "Washington - King"   (see [CountyLabel])
//	national:     "USA"                 (synthetic, see [NationalTotal])
//
// # National Total
//
// States stop reporting at different times, so summing the latest day would
// undercount the country. The national series is truncated at the cutoff: the
// earliest of the per-state latest report dates ([Cutoff]). Each national row
// is the sum of every state row on that date; null counts are skipped.
//
// # Immutability
//
// A [Table] is built once at startup and only read afterwards. Accessors hand
// out copies so request handlers can share a table without locking.
package domain
