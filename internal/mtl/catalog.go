package mtl

import (
	"fmt"
	"strconv"

	"github.com/lsrd/espa-convert/internal/meta"
)

// bandInfo accumulates the per-band fields discovered while scanning the
// metadata text. A bandInfo is created only by a FILE_NAME record; every
// other record merges into an existing entry.
type bandInfo struct {
	id       string
	fileName string
	category meta.Category
	bandNum  string
	num      int // numeric band number, 0 for named bands
	vcid     int
	dataType meta.DataType

	min, max  float64
	haveRange bool

	gain, bias         *float64
	reflGain, reflBias *float64
	k1, k2             *float64
}

// Catalog builds the ordered band table for a scene.
type Catalog struct {
	bands []*bandInfo
	byID  map[string]*bandInfo
}

func NewCatalog() *Catalog {
	return &Catalog{byID: make(map[string]*bandInfo)}
}

// Len returns the number of discovered bands.
func (c *Catalog) Len() int { return len(c.bands) }

// AddFile records a FILE_NAME entry. The identifier is classified against
// the fixed pattern tables; identifiers of no interest are skipped and the
// band count is not incremented.
func (c *Catalog) AddFile(id, fileName string) bool {
	info := &bandInfo{id: id, fileName: fileName}

	var bnum, vcid int
	if n, _ := fmt.Sscanf(id, "BAND_%d_VCID_%d", &bnum, &vcid); n > 0 {
		info.category = meta.CategoryImage
		info.num = bnum
		info.vcid = vcid
		if vcid == 0 {
			info.bandNum = strconv.Itoa(bnum)
		} else {
			info.bandNum = fmt.Sprintf("%d%d", bnum, vcid)
		}
	} else if name, ok := qualityBandIDs[id]; ok {
		info.category = meta.CategoryQuality
		info.bandNum = name
	} else if name, ok := angleBandIDs[id]; ok {
		info.category = meta.CategoryAngle
		info.bandNum = name
	} else {
		return false
	}

	c.bands = append(c.bands, info)
	c.byID[id] = info
	return true
}

// lookup finds the band created for an identifier, failing when no
// creation record has been seen.
func (c *Catalog) lookup(id string) (*bandInfo, error) {
	if info, ok := c.byID[id]; ok {
		return info, nil
	}
	return nil, &meta.NotFoundError{ID: id}
}

// SetDataType merges a DATA_TYPE record.
func (c *Catalog) SetDataType(id string, value string) error {
	info, err := c.lookup(id)
	if err != nil {
		return err
	}
	dt, err := meta.ParseDataType(value)
	if err != nil {
		return err
	}
	info.dataType = dt
	return nil
}

// SetCalMin and SetCalMax merge the quantize calibration range records.
func (c *Catalog) SetCalMin(id string, v float64) error {
	info, err := c.lookup(id)
	if err != nil {
		return err
	}
	info.min = v
	info.haveRange = true
	return nil
}

func (c *Catalog) SetCalMax(id string, v float64) error {
	info, err := c.lookup(id)
	if err != nil {
		return err
	}
	info.max = v
	info.haveRange = true
	return nil
}

// SetRadiance merges the radiance rescaling gain or bias.
func (c *Catalog) SetRadiance(id string, gain bool, v float64) error {
	info, err := c.lookup(id)
	if err != nil {
		return err
	}
	if gain {
		info.gain = &v
	} else {
		info.bias = &v
	}
	return nil
}

// SetReflectance merges the TOA reflectance rescaling gain or bias.
func (c *Catalog) SetReflectance(id string, gain bool, v float64) error {
	info, err := c.lookup(id)
	if err != nil {
		return err
	}
	if gain {
		info.reflGain = &v
	} else {
		info.reflBias = &v
	}
	return nil
}

// SetThermalConst merges a K1 or K2 brightness-temperature constant.
func (c *Catalog) SetThermalConst(id string, k int, v float64) error {
	info, err := c.lookup(id)
	if err != nil {
		return err
	}
	if k == 1 {
		info.k1 = &v
	} else {
		info.k2 = &v
	}
	return nil
}

// GridShape is the declared raster geometry for one band class.
type GridShape struct {
	NLines    int
	NSamps    int
	PixelSize [2]float64
}

// FinalizeParams carries the scene-level context the catalog needs to
// resolve names, dimensions and derived numeric fields.
type FinalizeParams struct {
	Satellite  meta.Satellite
	Instrument meta.Instrument

	ProductID      string
	ProductLevel   string
	AppVersion     string
	ProductionDate string
	Resample       meta.ResampleMethod

	Reflective GridShape
	Thermal    GridShape
	Pan        GridShape

	GainBiasAvailable     bool
	ReflGainBiasAvailable bool
}

// Finalize resolves every derived band field and returns the ordered
// descriptors together with the index-aligned source file names.
func (c *Catalog) Finalize(p FinalizeParams) ([]meta.BandDescriptor, []string, error) {
	prefix, err := ShortNamePrefix(p.Satellite, p.Instrument)
	if err != nil {
		return nil, nil, err
	}

	bands := make([]meta.BandDescriptor, 0, len(c.bands))
	sources := make([]string, 0, len(c.bands))

	for _, info := range c.bands {
		b := meta.BandDescriptor{
			Product:        p.ProductLevel,
			Category:       info.category,
			DataType:       info.dataType,
			DataUnits:      "digital numbers",
			PixelUnits:     "meters",
			ResampleMethod: p.Resample,
			AppVersion:     p.AppVersion,
			ProductionDate: p.ProductionDate,
		}

		fill := int64(0)
		b.FillValue = &fill

		if info.haveRange {
			b.ValidRange = &[2]float64{info.min, info.max}
		}
		if p.GainBiasAvailable {
			b.RadGain = info.gain
			b.RadBias = info.bias
		}

		thermal := info.category == meta.CategoryImage &&
			isThermal(p.Instrument, info.num, info.vcid)
		b.Thermal = thermal

		if p.ReflGainBiasAvailable && info.category == meta.CategoryImage {
			// Reflectance gain/bias exist only for the reflective
			// bands; the thermal bands carry K constants instead.
			if thermal {
				b.K1Const = info.k1
				b.K2Const = info.k2
			} else {
				b.ReflGain = info.reflGain
				b.ReflBias = info.reflBias
			}
		}

		// Band names: lower case 'b' distinguishes converted products
		// from the original Level-1 band files.
		if info.num > 0 {
			b.Name = "b" + info.bandNum
			b.LongName = fmt.Sprintf("band %s digital numbers", info.bandNum)
			b.ShortName = prefix + "DN"
		} else if q, ok := qualityBandText[info.bandNum]; ok {
			b.Name = info.bandNum
			b.LongName = q.LongName
			b.ShortName = prefix + q.Suffix
		} else if a, ok := angleBandText[info.bandNum]; ok {
			b.Name = info.bandNum
			b.LongName = a.LongName
			b.ShortName = prefix + a.Suffix
		} else {
			return nil, nil, &meta.UnsupportedValueError{Field: "band", Value: info.bandNum}
		}

		b.FileName = fmt.Sprintf("%s_%s.img", p.ProductID, b.Name)

		// Dimensions by class: thermal, panchromatic (band 8 on both
		// ETM+ and OLI), otherwise reflective.
		shape := p.Reflective
		if thermal {
			shape = p.Thermal
		} else if info.bandNum == "8" {
			shape = p.Pan
		}
		b.NLines = shape.NLines
		b.NSamps = shape.NSamps
		b.PixelSize = shape.PixelSize

		switch info.category {
		case meta.CategoryQuality:
			q := qualityBandText[info.bandNum]
			b.DataUnits = q.DataUnits
			b.ValidRange = &[2]float64{0, 65535}
			b.RadGain = nil
			b.RadBias = nil
			b.ReflGain = nil
			b.ReflBias = nil
			b.K1Const = nil
			b.K2Const = nil
			b.BitFlags = BitFlagsForBand(info.bandNum, p.Instrument)
			if len(b.BitFlags) != meta.BitFlagCount {
				return nil, nil, &meta.UnsupportedValueError{Field: "quality band", Value: info.bandNum}
			}
		case meta.CategoryAngle:
			scale := angleScaleFactor
			offset := angleAddOffset
			vr := angleValidRange(info.bandNum)
			b.ScaleFactor = &scale
			b.AddOffset = &offset
			b.ValidRange = &vr
			b.RadGain = nil
			b.RadBias = nil
			b.DataUnits = "degrees"
		}

		bands = append(bands, b)
		sources = append(sources, info.fileName)
	}

	return bands, sources, nil
}
