// Package espa writes and reads the converted product surface: the scene
// metadata XML document and the flat raster files with their ENVI headers.
package espa

import (
	"encoding/xml"
	"fmt"
	"os"

	"github.com/lsrd/espa-convert/internal/meta"
)

const xmlNamespace = "http://espa.cr.usgs.gov/v2"

// Wire structs for the metadata document. Optional elements are pointers
// so that absent vendor fields stay absent in the output.

type xmlSolarAngles struct {
	Zenith  float64 `xml:"zenith,attr"`
	Azimuth float64 `xml:"azimuth,attr"`
	Units   string  `xml:"units,attr"`
}

type xmlWRS struct {
	System int `xml:"system,attr"`
	Path   int `xml:"path,attr"`
	Row    int `xml:"row,attr"`
}

type xmlBounding struct {
	West  float64 `xml:"west"`
	East  float64 `xml:"east"`
	North float64 `xml:"north"`
	South float64 `xml:"south"`
}

type xmlGeoCorner struct {
	Location  string  `xml:"location,attr"`
	Latitude  float64 `xml:"latitude,attr"`
	Longitude float64 `xml:"longitude,attr"`
}

type xmlCornerPoint struct {
	Location string  `xml:"location,attr"`
	X        float64 `xml:"x,attr"`
	Y        float64 `xml:"y,attr"`
}

type xmlUTMParams struct {
	ZoneCode int `xml:"zone_code"`
}

type xmlPSParams struct {
	LongitudePole     float64 `xml:"longitude_pole"`
	LatitudeTrueScale float64 `xml:"latitude_true_scale"`
	FalseEasting      float64 `xml:"false_easting"`
	FalseNorthing     float64 `xml:"false_northing"`
}

type xmlAlbersParams struct {
	StandardParallel1 float64 `xml:"standard_parallel1"`
	StandardParallel2 float64 `xml:"standard_parallel2"`
	CentralMeridian   float64 `xml:"central_meridian"`
	OriginLatitude    float64 `xml:"origin_latitude"`
	FalseEasting      float64 `xml:"false_easting"`
	FalseNorthing     float64 `xml:"false_northing"`
}

type xmlProjection struct {
	Projection string `xml:"projection,attr"`
	Datum      string `xml:"datum,attr,omitempty"`
	Units      string `xml:"units,attr"`

	CornerPoints []xmlCornerPoint `xml:"corner_point"`
	GridOrigin   string           `xml:"grid_origin"`

	UTM    *xmlUTMParams    `xml:"utm_proj_params"`
	PS     *xmlPSParams     `xml:"ps_proj_params"`
	Albers *xmlAlbersParams `xml:"albers_proj_params"`
}

type xmlGlobal struct {
	DataProvider         string         `xml:"data_provider"`
	Satellite            string         `xml:"satellite"`
	Instrument           string         `xml:"instrument"`
	AcquisitionDate      string         `xml:"acquisition_date"`
	SceneCenterTime      string         `xml:"scene_center_time"`
	Level1ProductionDate string         `xml:"level1_production_date"`
	SolarAngles          xmlSolarAngles `xml:"solar_angles"`
	EarthSunDistance     float64        `xml:"earth_sun_distance"`
	WRS                  xmlWRS         `xml:"wrs"`
	ProductID            string         `xml:"product_id"`
	LPGSMetadataFile     string         `xml:"lpgs_metadata_file"`
	Corners              []xmlGeoCorner `xml:"corner"`
	Bounding             xmlBounding    `xml:"bounding_coordinates"`
	Projection           xmlProjection  `xml:"projection_information"`
	OrientationAngle     float64        `xml:"orientation_angle"`
}

type xmlValidRange struct {
	Min float64 `xml:"min,attr"`
	Max float64 `xml:"max,attr"`
}

type xmlGainBias struct {
	Gain *float64 `xml:"gain,attr"`
	Bias *float64 `xml:"bias,attr"`
}

type xmlThermalConst struct {
	K1 *float64 `xml:"k1,attr"`
	K2 *float64 `xml:"k2,attr"`
}

type xmlPixelSize struct {
	X     float64 `xml:"x,attr"`
	Y     float64 `xml:"y,attr"`
	Units string  `xml:"units,attr"`
}

type xmlBit struct {
	Num  int    `xml:"num,attr"`
	Text string `xml:",chardata"`
}

type xmlBitmap struct {
	Bits []xmlBit `xml:"bit"`
}

type xmlBand struct {
	Product   string `xml:"product,attr"`
	Name      string `xml:"name,attr"`
	Category  string `xml:"category,attr"`
	DataType  string `xml:"data_type,attr"`
	NLines    int    `xml:"nlines,attr"`
	NSamps    int    `xml:"nsamps,attr"`
	FillValue *int64 `xml:"fill_value,attr"`
	Thermal   bool   `xml:"thermal,attr,omitempty"`

	ShortName      string           `xml:"short_name"`
	LongName       string           `xml:"long_name"`
	FileName       string           `xml:"file_name"`
	PixelSize      xmlPixelSize     `xml:"pixel_size"`
	ResampleMethod string           `xml:"resample_method"`
	DataUnits      string           `xml:"data_units"`
	ValidRange     *xmlValidRange   `xml:"valid_range"`
	ScaleFactor    *float64         `xml:"scale_factor"`
	AddOffset      *float64         `xml:"add_offset"`
	Radiance       *xmlGainBias     `xml:"radiance"`
	Reflectance    *xmlGainBias     `xml:"toa_reflectance"`
	ThermalConst   *xmlThermalConst `xml:"thermal_const"`
	Bitmap         *xmlBitmap       `xml:"bitmap_description"`
	AppVersion     string           `xml:"app_version,omitempty"`
	ProductionDate string           `xml:"production_date,omitempty"`
}

type xmlDocument struct {
	XMLName xml.Name  `xml:"espa_metadata"`
	Version string    `xml:"version,attr"`
	Xmlns   string    `xml:"xmlns,attr"`
	Global  xmlGlobal `xml:"global_metadata"`
	Bands   []xmlBand `xml:"bands>band"`
}

// toWire converts the canonical scene into the document form.
func toWire(s *meta.SceneMetadata) *xmlDocument {
	doc := &xmlDocument{
		Version: "2.0",
		Xmlns:   xmlNamespace,
		Global: xmlGlobal{
			DataProvider:         s.DataProvider,
			Satellite:            string(s.Satellite),
			Instrument:           string(s.Instrument),
			AcquisitionDate:      s.AcquisitionDate,
			SceneCenterTime:      s.SceneCenterTime,
			Level1ProductionDate: s.Level1ProductionDate,
			SolarAngles: xmlSolarAngles{
				Zenith:  s.SolarZenith,
				Azimuth: s.SolarAzimuth,
				Units:   s.SolarUnits,
			},
			EarthSunDistance: s.EarthSunDistance,
			WRS:              xmlWRS{System: s.WRSSystem, Path: s.WRSPath, Row: s.WRSRow},
			ProductID:        s.ProductID,
			LPGSMetadataFile: s.LPGSMetadataFile,
			Corners: []xmlGeoCorner{
				{Location: "UL", Latitude: s.ULCorner.Latitude, Longitude: s.ULCorner.Longitude},
				{Location: "LR", Latitude: s.LRCorner.Latitude, Longitude: s.LRCorner.Longitude},
			},
			Bounding: xmlBounding{
				West:  s.Bounds.West,
				East:  s.Bounds.East,
				North: s.Bounds.North,
				South: s.Bounds.South,
			},
			OrientationAngle: s.OrientationAngle,
		},
	}

	p := s.Projection
	proj := xmlProjection{
		Projection: p.Type.String(),
		Datum:      string(p.Datum),
		Units:      p.Units,
		GridOrigin: p.GridOrigin,
		CornerPoints: []xmlCornerPoint{
			{Location: "UL", X: p.ULCorner.X, Y: p.ULCorner.Y},
			{Location: "LR", X: p.LRCorner.X, Y: p.LRCorner.Y},
		},
	}
	switch p.Type {
	case meta.ProjUTM:
		proj.UTM = &xmlUTMParams{ZoneCode: p.UTMZone}
	case meta.ProjPS:
		proj.PS = &xmlPSParams{
			LongitudePole:     p.LongitudePole,
			LatitudeTrueScale: p.LatitudeTrueScale,
			FalseEasting:      p.FalseEasting,
			FalseNorthing:     p.FalseNorthing,
		}
	case meta.ProjAlbers:
		proj.Albers = &xmlAlbersParams{
			StandardParallel1: p.StandardParallel1,
			StandardParallel2: p.StandardParallel2,
			CentralMeridian:   p.CentralMeridian,
			OriginLatitude:    p.OriginLatitude,
			FalseEasting:      p.FalseEasting,
			FalseNorthing:     p.FalseNorthing,
		}
	}
	doc.Global.Projection = proj

	for i := range s.Bands {
		doc.Bands = append(doc.Bands, bandToWire(&s.Bands[i]))
	}
	return doc
}

func bandToWire(b *meta.BandDescriptor) xmlBand {
	category := b.Category
	if category == meta.CategoryAngle {
		// Angle bands travel with the image category.
		category = meta.CategoryImage
	}

	wb := xmlBand{
		Product:   b.Product,
		Name:      b.Name,
		Category:  string(category),
		DataType:  string(b.DataType),
		NLines:    b.NLines,
		NSamps:    b.NSamps,
		FillValue: b.FillValue,
		Thermal:   b.Thermal,

		ShortName: b.ShortName,
		LongName:  b.LongName,
		FileName:  b.FileName,
		PixelSize: xmlPixelSize{
			X:     b.PixelSize[0],
			Y:     b.PixelSize[1],
			Units: b.PixelUnits,
		},
		ResampleMethod: string(b.ResampleMethod),
		DataUnits:      b.DataUnits,
		ScaleFactor:    b.ScaleFactor,
		AddOffset:      b.AddOffset,
		AppVersion:     b.AppVersion,
		ProductionDate: b.ProductionDate,
	}

	if b.ValidRange != nil {
		wb.ValidRange = &xmlValidRange{Min: b.ValidRange[0], Max: b.ValidRange[1]}
	}
	if b.RadGain != nil || b.RadBias != nil {
		wb.Radiance = &xmlGainBias{Gain: b.RadGain, Bias: b.RadBias}
	}
	if b.ReflGain != nil || b.ReflBias != nil {
		wb.Reflectance = &xmlGainBias{Gain: b.ReflGain, Bias: b.ReflBias}
	}
	if b.K1Const != nil || b.K2Const != nil {
		wb.ThermalConst = &xmlThermalConst{K1: b.K1Const, K2: b.K2Const}
	}
	if len(b.BitFlags) > 0 {
		bm := &xmlBitmap{}
		for i, text := range b.BitFlags {
			bm.Bits = append(bm.Bits, xmlBit{Num: i, Text: text})
		}
		wb.Bitmap = bm
	}
	return wb
}

// angleBandNames recognizes the per-pixel angle bands when a document is
// read back; the wire form does not distinguish them from image bands.
var angleBandNames = map[string]bool{
	"sensor_azimuth_band4": true,
	"sensor_zenith_band4":  true,
	"solar_azimuth_band4":  true,
	"solar_zenith_band4":   true,
}

// fromWire converts a parsed document back into the canonical scene.
func fromWire(doc *xmlDocument) (*meta.SceneMetadata, error) {
	g := doc.Global
	s := &meta.SceneMetadata{
		DataProvider:         g.DataProvider,
		Satellite:            meta.Satellite(g.Satellite),
		Instrument:           meta.Instrument(g.Instrument),
		AcquisitionDate:      g.AcquisitionDate,
		SceneCenterTime:      g.SceneCenterTime,
		Level1ProductionDate: g.Level1ProductionDate,
		SolarZenith:          g.SolarAngles.Zenith,
		SolarAzimuth:         g.SolarAngles.Azimuth,
		SolarUnits:           g.SolarAngles.Units,
		EarthSunDistance:     g.EarthSunDistance,
		WRSSystem:            g.WRS.System,
		WRSPath:              g.WRS.Path,
		WRSRow:               g.WRS.Row,
		ProductID:            g.ProductID,
		LPGSMetadataFile:     g.LPGSMetadataFile,
		OrientationAngle:     g.OrientationAngle,
		Bounds: meta.BoundingBox{
			West:  g.Bounding.West,
			East:  g.Bounding.East,
			North: g.Bounding.North,
			South: g.Bounding.South,
		},
	}

	for _, c := range g.Corners {
		switch c.Location {
		case "UL":
			s.ULCorner = meta.GeoCorner{Latitude: c.Latitude, Longitude: c.Longitude}
		case "LR":
			s.LRCorner = meta.GeoCorner{Latitude: c.Latitude, Longitude: c.Longitude}
		}
	}

	ptype, err := meta.ParseProjection(g.Projection.Projection)
	if err != nil {
		return nil, err
	}
	p := meta.ProjectionDescriptor{
		Type:       ptype,
		Datum:      meta.Datum(g.Projection.Datum),
		Units:      g.Projection.Units,
		GridOrigin: g.Projection.GridOrigin,
	}
	for _, c := range g.Projection.CornerPoints {
		switch c.Location {
		case "UL":
			p.ULCorner = meta.ProjCorner{X: c.X, Y: c.Y}
		case "LR":
			p.LRCorner = meta.ProjCorner{X: c.X, Y: c.Y}
		}
	}
	if u := g.Projection.UTM; u != nil {
		p.UTMZone = u.ZoneCode
	}
	if ps := g.Projection.PS; ps != nil {
		p.LongitudePole = ps.LongitudePole
		p.LatitudeTrueScale = ps.LatitudeTrueScale
		p.FalseEasting = ps.FalseEasting
		p.FalseNorthing = ps.FalseNorthing
	}
	if al := g.Projection.Albers; al != nil {
		p.StandardParallel1 = al.StandardParallel1
		p.StandardParallel2 = al.StandardParallel2
		p.CentralMeridian = al.CentralMeridian
		p.OriginLatitude = al.OriginLatitude
		p.FalseEasting = al.FalseEasting
		p.FalseNorthing = al.FalseNorthing
	}
	s.Projection = p

	for i := range doc.Bands {
		b, err := bandFromWire(&doc.Bands[i])
		if err != nil {
			return nil, err
		}
		s.Bands = append(s.Bands, b)
	}
	return s, nil
}

func bandFromWire(wb *xmlBand) (meta.BandDescriptor, error) {
	dt, err := meta.ParseDataType(wb.DataType)
	if err != nil {
		return meta.BandDescriptor{}, err
	}

	category := meta.Category(wb.Category)
	if category == meta.CategoryImage && angleBandNames[wb.Name] {
		category = meta.CategoryAngle
	}

	b := meta.BandDescriptor{
		Product:   wb.Product,
		Name:      wb.Name,
		Category:  category,
		DataType:  dt,
		Thermal:   wb.Thermal,
		NLines:    wb.NLines,
		NSamps:    wb.NSamps,
		FillValue: wb.FillValue,

		ShortName:      wb.ShortName,
		LongName:       wb.LongName,
		FileName:       wb.FileName,
		PixelSize:      [2]float64{wb.PixelSize.X, wb.PixelSize.Y},
		PixelUnits:     wb.PixelSize.Units,
		ResampleMethod: meta.ResampleMethod(wb.ResampleMethod),
		DataUnits:      wb.DataUnits,
		ScaleFactor:    wb.ScaleFactor,
		AddOffset:      wb.AddOffset,
		AppVersion:     wb.AppVersion,
		ProductionDate: wb.ProductionDate,
	}

	if wb.ValidRange != nil {
		b.ValidRange = &[2]float64{wb.ValidRange.Min, wb.ValidRange.Max}
	}
	if wb.Radiance != nil {
		b.RadGain = wb.Radiance.Gain
		b.RadBias = wb.Radiance.Bias
	}
	if wb.Reflectance != nil {
		b.ReflGain = wb.Reflectance.Gain
		b.ReflBias = wb.Reflectance.Bias
	}
	if wb.ThermalConst != nil {
		b.K1Const = wb.ThermalConst.K1
		b.K2Const = wb.ThermalConst.K2
	}
	if wb.Bitmap != nil {
		flags := make([]string, len(wb.Bitmap.Bits))
		for _, bit := range wb.Bitmap.Bits {
			if bit.Num < 0 || bit.Num >= len(flags) {
				return meta.BandDescriptor{}, fmt.Errorf("bitmap bit %d out of range for band %s", bit.Num, wb.Name)
			}
			flags[bit.Num] = bit.Text
		}
		b.BitFlags = flags
	}
	// Quality bands always carry the full bit-flag table.
	if b.Category == meta.CategoryQuality && len(b.BitFlags) != meta.BitFlagCount {
		return meta.BandDescriptor{}, fmt.Errorf("quality band %s carries %d bitmap descriptions, expected %d",
			wb.Name, len(b.BitFlags), meta.BitFlagCount)
	}
	return b, nil
}

// WriteMetadata serializes the scene to an XML metadata file.
func WriteMetadata(path string, s *meta.SceneMetadata) error {
	out, err := xml.MarshalIndent(toWire(s), "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	out = append([]byte(xml.Header), out...)
	out = append(out, '\n')
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("failed to write metadata file: %w", err)
	}
	return nil
}

// ReadMetadata parses a scene metadata XML file.
func ReadMetadata(path string) (*meta.SceneMetadata, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata file: %w", err)
	}
	var doc xmlDocument
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse metadata file %s: %w", path, err)
	}
	return fromWire(&doc)
}
