// Package config loads site settings from an optional site.yaml with
// MURALS_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/joeblew999/plat-murals/internal/directions"
	"github.com/joeblew999/plat-murals/internal/geo"
	"github.com/joeblew999/plat-murals/internal/mapview"
)

const (
	configFileName = "site"
	configFileType = "yaml"
	envPrefix      = "MURALS"

	keyCameraLat      = "camera.lat"
	keyCameraLng      = "camera.lng"
	keyCameraZoom     = "camera.zoom"
	keyCameraPitch    = "camera.pitch"
	keyCameraBearing  = "camera.bearing"
	keyStyleSatellite = "style.satellite"
	keyStyleDark      = "style.dark"
	keyAccentColor    = "accent_color"
	keyDirectionsURL  = "directions.base_url"
	keyDirectionsTok  = "directions.token"
	keyAssetsDir      = "assets.dir"
	keyAssetsMapping  = "assets.mapping"
)

// Site is the per-deployment configuration.
type Site struct {
	Camera        mapview.Camera
	StyleURLs     map[mapview.StyleKind]string
	AccentColor   string
	DirectionsURL string
	Token         string
	AssetsDir     string
	AssetsMapping string
}

// MapOptions returns controller options for the site.
func (s Site) MapOptions() mapview.Options {
	return mapview.Options{
		StyleURLs:   s.StyleURLs,
		AccentColor: s.AccentColor,
		Camera:      s.Camera,
	}
}

// Directions returns a directions client for the site.
func (s Site) Directions() *directions.Client {
	return directions.New(s.DirectionsURL, s.Token)
}

func newViper() *viper.Viper {
	v := viper.New()
	cam := mapview.VerdeStation
	v.SetDefault(keyCameraLat, cam.Center.Lat)
	v.SetDefault(keyCameraLng, cam.Center.Lng)
	v.SetDefault(keyCameraZoom, cam.Zoom)
	v.SetDefault(keyCameraPitch, cam.Pitch)
	v.SetDefault(keyCameraBearing, cam.Bearing)
	v.SetDefault(keyStyleSatellite, mapview.DefaultStyleURLs[mapview.StyleSatellite])
	v.SetDefault(keyStyleDark, mapview.DefaultStyleURLs[mapview.StyleDark])
	v.SetDefault(keyAccentColor, mapview.DefaultAccentColor)
	v.SetDefault(keyDirectionsURL, directions.DefaultBaseURL)
	v.SetDefault(keyDirectionsTok, "")
	v.SetDefault(keyAssetsDir, "public/assets")
	v.SetDefault(keyAssetsMapping, "assets.yaml")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv(keyDirectionsTok, "MURALS_DIRECTIONS_TOKEN", "MAPBOX_TOKEN")
	return v
}

// Load reads file, or site.yaml from dir when file is empty. A missing
// site.yaml is not an error; a missing explicit file is.
func Load(file, dir string) (Site, error) {
	v := newViper()
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Site{}, fmt.Errorf("read site config: %w", err)
		}
	}
	return fromViper(v), nil
}

func fromViper(v *viper.Viper) Site {
	return Site{
		Camera: mapview.Camera{
			Center:  geo.Coordinate{Lat: v.GetFloat64(keyCameraLat), Lng: v.GetFloat64(keyCameraLng)},
			Zoom:    v.GetFloat64(keyCameraZoom),
			Pitch:   mapview.ClampPitch(v.GetFloat64(keyCameraPitch)),
			Bearing: v.GetFloat64(keyCameraBearing),
		},
		StyleURLs: map[mapview.StyleKind]string{
			mapview.StyleSatellite: v.GetString(keyStyleSatellite),
			mapview.StyleDark:      v.GetString(keyStyleDark),
		},
		AccentColor:   v.GetString(keyAccentColor),
		DirectionsURL: v.GetString(keyDirectionsURL),
		Token:         v.GetString(keyDirectionsTok),
		AssetsDir:     v.GetString(keyAssetsDir),
		AssetsMapping: v.GetString(keyAssetsMapping),
	}
}
