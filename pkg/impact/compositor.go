// Package impact assembles the four-band impact composite from a flood
// extent, population and cropland rasters, and an amenity point layer, and
// rolls the channels up into dollar aggregates. The three channel
// computations run concurrently and independently; merging and cost
// derivation happen single-threaded after all three succeed, so a failure
// in any channel leaves no partial output behind.
package impact

import (
	"context"
	"fmt"
	"time"

	"github.com/RickytheGuy/FloodImpact/pkg/amenity"
	"github.com/RickytheGuy/FloodImpact/pkg/channel"
	"github.com/RickytheGuy/FloodImpact/pkg/cost"
	"github.com/RickytheGuy/FloodImpact/pkg/raster"
	"github.com/RickytheGuy/FloodImpact/pkg/vector"
	"github.com/RickytheGuy/FloodImpact/pkg/warp"
	"golang.org/x/sync/errgroup"
)

// Inputs bundles the layers feeding one composite.
type Inputs struct {
	// Flood is the reference extent; its grid defines the output frame.
	Flood *raster.Layer
	// Population and Cropland may arrive on any grid; both are warped onto
	// the flood grid before their channels are computed.
	Population *raster.Layer
	Cropland   *raster.Layer
	// Points must already be in the flood grid's coordinate frame.
	Points []vector.Point
	Model  cost.Model
}

// Options tunes a composite run.
type Options struct {
	// Timeout bounds each channel computation; zero means no limit.
	Timeout time.Duration
	// WithCostRaster adds the per-pixel dollar raster to the result.
	WithCostRaster bool
}

// Result is a finished composite.
type Result struct {
	Impact *raster.Impact
	// Cost is nil unless Options.WithCostRaster was set.
	Cost      *raster.Layer
	Aggregate Aggregate
}

// Composite builds the impact raster and aggregates for one flood snapshot.
func Composite(ctx context.Context, in Inputs, opts Options) (*Result, error) {
	// 1. Validate the reference frame before spending any work on it.
	if in.Flood == nil || in.Population == nil || in.Cropland == nil {
		return nil, fmt.Errorf("impact compositing: flood, population, and cropland layers are all required")
	}
	if err := in.Flood.Grid.Validate(); err != nil {
		return nil, fmt.Errorf("impact compositing: flood grid: %w", err)
	}
	if err := in.Flood.CheckShape(); err != nil {
		return nil, fmt.Errorf("impact compositing: flood layer: %w", err)
	}
	g := in.Flood.Grid
	classifier := amenity.NewClassifier(in.Model)

	// 2. Compute the three channels concurrently. Each task owns its output
	// and warps its own input, so the only shared state is the read-only
	// flood layer. The first failure cancels the group.
	var (
		popRes  channel.PopulationResult
		cropRes channel.CroplandResult
		amenRes channel.AmenityResult
	)
	eg, gctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return runChannel(gctx, opts.Timeout, "population", func(tctx context.Context) error {
			warped, err := warp.Regrid(in.Population, g)
			if err != nil {
				return fmt.Errorf("warping population layer: %w", err)
			}
			if err := tctx.Err(); err != nil {
				return err
			}
			popRes, err = channel.Population(in.Flood, warped)
			return err
		})
	})
	eg.Go(func() error {
		return runChannel(gctx, opts.Timeout, "cropland", func(tctx context.Context) error {
			warped, err := warp.Regrid(in.Cropland, g)
			if err != nil {
				return fmt.Errorf("warping cropland layer: %w", err)
			}
			if err := tctx.Err(); err != nil {
				return err
			}
			cropRes, err = channel.Cropland(in.Flood, warped)
			return err
		})
	})
	eg.Go(func() error {
		return runChannel(gctx, opts.Timeout, "amenity", func(context.Context) error {
			amenRes = channel.Amenities(in.Flood, in.Points, classifier)
			return nil
		})
	})
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("impact compositing: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("impact compositing: %w", err)
	}

	// 3. Merge. Bands 0 and 1 are the channel planes; band 2 is scattered
	// from the retained points in input order, last write winning when two
	// points share a pixel; band 3 goes opaque wherever bands 0-2 carry
	// any value.
	amenPlane := raster.NewUint8Plane(g.Width, g.Height)
	for _, p := range amenRes.Points {
		amenPlane.Set(channel.CostByte(p.Cost, amenRes.MaxCost), p.Row, p.Col)
	}
	alpha := raster.NewUint8Plane(g.Width, g.Height)
	im := &raster.Impact{
		Grid: g,
		Bands: [4]*raster.Uint8Plane{
			raster.BandPopulation: popRes.Channel,
			raster.BandCropland:   cropRes.Channel,
			raster.BandAmenity:    amenPlane,
			raster.BandAlpha:      alpha,
		},
	}
	for i := range alpha.Pix {
		if popRes.Channel.Pix[i] != 0 || cropRes.Channel.Pix[i] != 0 || amenPlane.Pix[i] != 0 {
			alpha.Pix[i] = 255
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("impact compositing: %w", err)
	}

	// 4. Derive the dollar aggregates and, when asked, the per-pixel cost
	// raster.
	res := &Result{
		Impact:    im,
		Aggregate: deriveAggregate(in.Model, popRes, cropRes, amenRes),
	}
	if opts.WithCostRaster {
		res.Cost = costRaster(in.Model, im, popRes.RawMax, amenRes.MaxCost)
	}
	return res, nil
}

// runChannel wraps one channel computation with the optional per-channel
// deadline and a name for error context.
func runChannel(ctx context.Context, timeout time.Duration, name string, fn func(context.Context) error) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s channel: %w", name, err)
	}
	if err := fn(ctx); err != nil {
		return fmt.Errorf("%s channel: %w", name, err)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s channel: %w", name, err)
	}
	return nil
}

// costRaster converts the byte bands back into dollars per pixel. Each band
// is undone with the scalar that produced it; the result carries 32-bit
// precision and a nodata value of 0.
func costRaster(model cost.Model, im *raster.Impact, rawMaxPop, maxAmenityCost float64) *raster.Layer {
	perPerson := model.PerPersonResidential()
	perHectare := model.PerHectareCropland()

	out := raster.NewLayer(im.Grid)
	out.NoData = 0
	out.HasNoData = true
	b0 := im.Bands[raster.BandPopulation].Pix
	b1 := im.Bands[raster.BandCropland].Pix
	b2 := im.Bands[raster.BandAmenity].Pix
	for i := range b0 {
		v := (float64(b0[i])*rawMaxPop*perPerson +
			float64(b1[i])*perHectare +
			float64(b2[i])*maxAmenityCost) / 255
		if v < 0 {
			v = 0
		}
		out.Data.Elements[i] = float64(float32(v))
	}
	return out
}
