// Package datasets holds the fixed methodology tables: regional climate data,
// solar geometry coefficients and the default fuel table.
package datasets

import "fmt"

// Region indexes the climate tables. Region 0 is the UK average.
type Region int

// NumRegions is the number of climate regions in the tables.
const NumRegions = 22

// UKAverage is the region used when none is specified.
const UKAverage Region = 0

// Valid reports whether r indexes the climate tables.
func (r Region) Valid() bool { return r >= 0 && int(r) < NumRegions }

// Name returns the region's display name.
func (r Region) Name() string {
	if !r.Valid() {
		return fmt.Sprintf("Region(%d)", int(r))
	}
	return regionNames[r]
}

//nolint:gochecknoglobals // Fixed methodology tables.
var regionNames = [NumRegions]string{
	"UK average", "Thames", "South East England", "Southern England", "South West England",
	"Severn Wales / Severn England", "Midlands", "West Pennines Wales / West Pennines England",
	"North West England / South West Scotland", "Borders Scotland / Borders England",
	"North East England", "East Pennines", "East Anglia", "Wales", "West Scotland",
	"East Scotland", "North East Scotland", "Highland", "Western Isles", "Orkney", "Shetland",
	"Northern Ireland",
}

// externalTemperature is the monthly mean external temperature in °C.
//
//nolint:gochecknoglobals // Fixed methodology tables.
var externalTemperature = [NumRegions][12]float64{
	{4.3, 4.9, 6.5, 8.9, 11.7, 14.6, 16.6, 16.4, 14.1, 10.6, 7.1, 4.2},
	{5.1, 5.6, 7.4, 9.9, 13.0, 16.0, 17.9, 17.8, 15.2, 11.6, 8.0, 5.1},
	{5.0, 5.4, 7.1, 9.5, 12.6, 15.4, 17.4, 17.5, 15.0, 11.7, 8.1, 5.2},
	{5.4, 5.7, 7.3, 9.6, 12.6, 15.4, 17.3, 17.3, 15.0, 11.8, 8.4, 5.5},
	{6.1, 6.4, 7.5, 9.3, 11.9, 14.5, 16.2, 16.3, 14.6, 11.8, 9.0, 6.4},
	{4.9, 5.3, 7.0, 9.3, 12.2, 15.0, 16.7, 16.7, 14.4, 11.1, 7.8, 4.9},
	{4.3, 4.8, 6.6, 9.0, 11.8, 14.8, 16.6, 16.5, 14.0, 10.5, 7.1, 4.2},
	{4.7, 5.2, 6.7, 9.1, 12.0, 14.7, 16.4, 16.3, 14.1, 10.7, 7.5, 4.6},
	{3.9, 4.3, 5.6, 7.9, 10.7, 13.2, 14.9, 14.8, 12.8, 9.7, 6.6, 3.7},
	{4.0, 4.5, 5.8, 7.9, 10.4, 13.3, 15.2, 15.1, 13.1, 9.7, 6.6, 3.7},
	{4.0, 4.6, 6.1, 8.3, 10.9, 13.8, 15.8, 15.6, 13.5, 10.1, 6.7, 3.8},
	{4.3, 4.9, 6.5, 8.9, 11.7, 14.6, 16.6, 16.4, 14.1, 10.6, 7.1, 4.2},
	{4.7, 5.2, 7.0, 9.5, 12.5, 15.4, 17.6, 17.6, 15.0, 11.4, 7.7, 4.7},
	{5.0, 5.3, 6.5, 8.5, 11.2, 13.7, 15.3, 15.3, 13.5, 10.7, 7.8, 5.2},
	{4.0, 4.4, 5.6, 7.9, 10.4, 13.0, 14.5, 14.4, 12.5, 9.3, 6.5, 3.8},
	{3.6, 4.0, 5.4, 7.7, 10.1, 12.9, 14.6, 14.5, 12.5, 9.2, 6.1, 3.2},
	{3.3, 3.6, 5.0, 7.1, 9.3, 12.2, 14.0, 13.9, 12.0, 8.8, 5.7, 2.9},
	{3.1, 3.2, 4.4, 6.6, 8.9, 11.4, 13.2, 13.1, 11.3, 8.2, 5.4, 2.7},
	{5.2, 5.0, 5.8, 7.6, 9.7, 11.8, 13.4, 13.6, 12.1, 9.6, 7.3, 5.2},
	{4.4, 4.2, 5.0, 7.0, 8.9, 11.2, 13.1, 13.2, 11.7, 9.1, 6.6, 4.3},
	{4.6, 4.1, 4.7, 6.5, 8.3, 10.5, 12.4, 12.8, 11.4, 8.8, 6.5, 4.6},
	{4.8, 5.2, 6.4, 8.4, 10.9, 13.5, 15.0, 14.9, 13.1, 10.0, 7.2, 4.7},
}

// windSpeed is the monthly mean wind speed in m/s at 10 m.
//
//nolint:gochecknoglobals // Fixed methodology tables.
var windSpeed = [NumRegions][12]float64{
	{5.1, 5.0, 4.9, 4.4, 4.3, 3.8, 3.8, 3.7, 4.0, 4.3, 4.5, 4.7},
	{4.2, 4.0, 4.0, 3.7, 3.7, 3.3, 3.4, 3.2, 3.3, 3.5, 3.5, 3.8},
	{4.8, 4.5, 4.4, 3.9, 3.9, 3.6, 3.7, 3.5, 3.7, 4.0, 4.1, 4.4},
	{5.1, 4.7, 4.6, 4.3, 4.3, 4.0, 4.0, 3.9, 4.0, 4.3, 4.4, 4.7},
	{6.0, 5.6, 5.4, 5.1, 5.0, 4.5, 4.4, 4.3, 4.7, 5.1, 5.4, 5.7},
	{4.9, 4.6, 4.7, 4.3, 4.3, 3.8, 3.8, 3.7, 3.8, 4.3, 4.3, 4.6},
	{4.5, 4.5, 4.4, 3.9, 3.8, 3.4, 3.3, 3.3, 3.5, 3.8, 3.9, 4.1},
	{4.8, 4.7, 4.6, 4.1, 4.0, 3.6, 3.6, 3.5, 3.7, 4.1, 4.2, 4.4},
	{5.2, 5.2, 5.0, 4.4, 4.3, 3.9, 3.7, 3.7, 4.1, 4.6, 4.8, 4.9},
	{5.2, 5.2, 5.0, 4.4, 4.1, 3.8, 3.5, 3.5, 3.9, 4.4, 4.6, 4.7},
	{5.3, 5.2, 5.0, 4.3, 4.2, 3.9, 3.6, 3.6, 4.1, 4.6, 4.8, 4.9},
	{5.1, 5.0, 4.9, 4.4, 4.3, 3.8, 3.8, 3.7, 4.0, 4.3, 4.5, 4.7},
	{4.9, 4.8, 4.7, 4.2, 4.2, 3.7, 3.8, 3.8, 4.0, 4.3, 4.5, 4.6},
	{6.5, 6.2, 5.9, 5.2, 5.1, 4.7, 4.5, 4.5, 5.1, 5.7, 6.0, 6.2},
	{6.2, 6.2, 5.9, 5.2, 4.9, 4.7, 4.3, 4.3, 4.9, 5.4, 5.7, 5.8},
	{5.7, 5.8, 5.7, 5.0, 4.8, 4.6, 4.1, 4.1, 4.7, 5.2, 5.2, 5.3},
	{5.7, 5.8, 5.7, 5.0, 4.6, 4.4, 4.0, 4.1, 4.6, 5.2, 5.3, 5.3},
	{6.5, 6.8, 6.4, 5.7, 5.1, 5.1, 4.6, 4.5, 5.3, 5.8, 6.1, 6.1},
	{8.3, 8.4, 7.9, 6.6, 6.1, 6.0, 5.6, 5.6, 6.3, 7.3, 7.7, 7.7},
	{7.6, 7.6, 7.1, 5.9, 5.5, 5.4, 5.0, 5.0, 5.7, 6.6, 7.0, 7.1},
	{8.6, 8.6, 8.0, 6.9, 6.2, 6.0, 5.6, 5.6, 6.5, 7.5, 8.0, 8.2},
	{5.4, 5.4, 5.3, 4.8, 4.7, 4.2, 4.0, 4.0, 4.3, 4.8, 5.0, 5.0},
}

// horizontalSolar is the monthly mean solar radiation on a horizontal plane in W/m².
//
//nolint:gochecknoglobals // Fixed methodology tables.
var horizontalSolar = [NumRegions][12]float64{
	{26, 54, 96, 150, 192, 200, 189, 157, 115, 66, 33, 21},
	{30, 56, 98, 157, 195, 217, 203, 173, 127, 73, 39, 24},
	{32, 59, 104, 170, 208, 231, 216, 182, 133, 77, 41, 25},
	{35, 62, 109, 172, 209, 235, 217, 185, 138, 80, 44, 27},
	{36, 63, 111, 174, 210, 233, 204, 182, 136, 78, 44, 28},
	{32, 59, 105, 167, 201, 226, 206, 175, 130, 74, 40, 25},
	{28, 55, 97, 153, 191, 208, 194, 163, 121, 69, 35, 23},
	{24, 51, 95, 152, 191, 203, 186, 152, 115, 65, 31, 20},
	{23, 51, 95, 157, 200, 203, 194, 156, 113, 62, 30, 19},
	{23, 50, 92, 151, 200, 196, 187, 153, 111, 61, 30, 18},
	{25, 51, 95, 152, 196, 198, 190, 156, 115, 64, 32, 20},
	{26, 54, 96, 150, 192, 200, 189, 157, 115, 66, 33, 21},
	{30, 58, 101, 165, 203, 220, 206, 173, 128, 74, 39, 24},
	{29, 57, 104, 164, 205, 220, 199, 167, 120, 68, 35, 22},
	{19, 46, 88, 148, 196, 193, 185, 150, 101, 55, 25, 15},
	{21, 46, 89, 146, 198, 191, 183, 150, 106, 57, 27, 15},
	{19, 45, 89, 143, 194, 188, 177, 144, 101, 54, 25, 14},
	{15, 40, 84, 141, 197, 186, 178, 140, 92, 46, 19, 9},
	{13, 41, 85, 144, 204, 182, 184, 142, 93, 45, 17, 9},
	{12, 40, 83, 148, 200, 186, 185, 137, 90, 43, 16, 7},
	{8, 35, 80, 137, 189, 174, 176, 131, 83, 37, 12, 5},
	{24, 52, 96, 155, 201, 198, 183, 150, 107, 61, 30, 18},
}

// latitude is the representative latitude of each region in degrees north.
//
//nolint:gochecknoglobals // Fixed methodology tables.
var latitude = [NumRegions]float64{
	53.5, 51.5, 51.0, 50.8, 50.6, 51.5, 52.7, 53.4, 54.8, 55.5, 54.5,
	54.5, 52.3, 52.5, 55.8, 56.4, 57.2, 57.5, 58.0, 59.0, 60.2, 54.7,
}

// ExternalTemperature returns the mean external temperature for month m (0–11).
func ExternalTemperature(r Region, m int) float64 {
	return externalTemperature[clampRegion(r)][m]
}

// WindSpeed returns the mean wind speed for month m (0–11).
func WindSpeed(r Region, m int) float64 {
	return windSpeed[clampRegion(r)][m]
}

// HorizontalSolar returns the horizontal solar radiation for month m (0–11).
func HorizontalSolar(r Region, m int) float64 {
	return horizontalSolar[clampRegion(r)][m]
}

// Latitude returns the region's latitude in degrees.
func Latitude(r Region) float64 {
	return latitude[clampRegion(r)]
}

// clampRegion maps invalid regions onto the UK average; extraction rejects
// them earlier, so this only guards table lookups.
func clampRegion(r Region) Region {
	if !r.Valid() {
		return UKAverage
	}
	return r
}
