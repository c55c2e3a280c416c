/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/notargets/vlmgrid/InputParameters"
	"github.com/notargets/vlmgrid/grid"
	"github.com/notargets/vlmgrid/surface"
	"github.com/notargets/vlmgrid/types"
	"github.com/notargets/vlmgrid/utils"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type MeshRun struct {
	InputFile  string
	OutputDir  string
	WriteMesh  bool
	Statistics bool
	Workers    int
}

// MeshCmd represents the mesh command
var MeshCmd = &cobra.Command{
	Use:   "mesh",
	Short: "Build panel meshes and multigrid levels from a YAML component file",
	Long: `Build panel meshes and multigrid levels from a YAML component file, optionally move them
with a rigid motion and write each level as a raw node/triangle dump`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		mr := &MeshRun{
			InputFile:  viper.GetString("inputFile"),
			OutputDir:  viper.GetString("outputDir"),
			WriteMesh:  viper.GetBool("writeMesh"),
			Statistics: viper.GetBool("statistics"),
			Workers:    viper.GetInt("workers"),
		}
		var ip *InputParameters.InputParametersMesh
		if ip, err = processMeshInput(mr); err != nil {
			return
		}
		ip.Print()
		_, err = RunMesh(mr, ip)
		return
	},
}

func init() {
	rootCmd.AddCommand(MeshCmd)
	MeshCmd.Flags().StringP("inputFile", "I", "", "YAML file describing the components")
	MeshCmd.Flags().StringP("outputDir", "o", ".", "directory for mesh dumps")
	MeshCmd.Flags().BoolP("writeMesh", "w", false, "write the level 0 mesh of every component")
	MeshCmd.Flags().BoolP("statistics", "s", false, "print grid statistics")
	MeshCmd.Flags().IntP("workers", "n", runtime.NumCPU(), "number of components built in parallel")
	for _, name := range []string{"inputFile", "outputDir", "writeMesh", "statistics", "workers"} {
		viper.BindPFlag(name, MeshCmd.Flags().Lookup(name))
	}
}

func processMeshInput(mr *MeshRun) (ip *InputParameters.InputParametersMesh, err error) {
	if len(mr.InputFile) == 0 {
		exampleFile := `
########################################
Title: "Wing"
Strict: false
Components:
  - Name: MainWing
    Type: wing
    NumI: 11
    NumJ: 9
    Span: 5
    RootChord: 2
    TipChord: 1
    Sweep: 20
Motion:
  Translation: [0, 0, 0.1]
  Axis: [1, 0, 0]
  AngleDeg: 5
########################################
`
		fmt.Printf("Example File:%s\n", exampleFile)
		return nil, errors.New("must supply an input file (-I, --inputFile)")
	}
	var data []byte
	if data, err = os.ReadFile(mr.InputFile); err != nil {
		return nil, errors.Wrap(err, "reading input file")
	}
	ip = &InputParameters.InputParametersMesh{}
	if err = ip.Parse(data); err != nil {
		return nil, err
	}
	return
}

/*
RunMesh builds every component on a pool of worker goroutines, each worker owning a contiguous range
of components. The optional rigid motion is then applied to all components concurrently.
*/
func RunMesh(mr *MeshRun, ip *InputParameters.InputParametersMesh) (surfaces []*surface.Surface, err error) {
	var (
		nc   = len(ip.Components)
		pm   = utils.NewPartitionMap(mr.Workers, nc)
		errs = make([]error, nc)
		wg   = sync.WaitGroup{}
	)
	surfaces = make([]*surface.Surface, nc)
	for np := 0; np < pm.ParallelDegree; np++ {
		if pm.GetBucketDimension(np) == 0 {
			continue
		}
		kMin, kMax := pm.GetBucketRange(np)
		wg.Add(1)
		go func(kMin, kMax int) {
			defer wg.Done()
			for k := kMin; k < kMax; k++ {
				surfaces[k], errs[k] = buildComponent(k, ip.Components[k], ip.Strict)
			}
		}(kMin, kMax)
	}
	wg.Wait()
	for _, e := range errs {
		if e != nil {
			return nil, e
		}
	}
	klog.V(1).Infof("built %d components, %s", nc, utils.GetMemUsage())

	if m := ip.Motion; m != nil {
		var (
			rm      = m.RigidMotion()
			inGroup func(int) bool
		)
		if len(m.Group) != 0 {
			inGroup = grid.ComponentGroup(m.Group...)
		}
		for _, s := range surfaces {
			wg.Add(1)
			go func(s *surface.Surface) {
				defer wg.Done()
				s.UpdateGeometryLocation(rm, inGroup)
			}(s)
		}
		wg.Wait()
	}

	for _, s := range surfaces {
		if mr.Statistics {
			fmt.Printf("Component %s: %d levels, wetted area %g, average chord %g\n",
				s.ComponentName, s.NumberOfGridLevels(), s.WettedArea, s.AverageChord)
			for _, g := range s.Grids {
				g.PrintStatistics()
			}
		}
		if mr.WriteMesh {
			if err = writeMesh(mr.OutputDir, s); err != nil {
				return
			}
		}
	}
	return
}

func buildComponent(id int, c InputParameters.Component, strict bool) (s *surface.Surface, err error) {
	var fp *surface.FlatPlate
	switch st := c.SurfaceType(); st {
	case types.ST_Wing:
		fp, err = surface.WingPlanform{Span: c.Span, RootChord: c.RootChord, TipChord: c.TipChord,
			Sweep: c.Sweep, Dihedral: c.Dihedral, Origin: c.Origin.R3()}.FlatPlate(c.NumI, c.NumJ)
	case types.ST_Body:
		fp, err = surface.BodyOfRevolution{Length: c.Length, Radius: c.Radius,
			Origin: c.Origin.R3()}.FlatPlate(c.NumI, c.NumJ)
	default:
		err = errors.Errorf("component %s: unknown type %q", c.Name, c.Type)
	}
	if err != nil {
		return
	}
	if s, err = surface.NewSurface(c.Name, id, id, c.SurfaceType(), fp, c.WettedArea,
		surface.Options{Strict: strict}); err != nil {
		return
	}
	if err = s.Build(); err != nil {
		return nil, err
	}
	return
}

// writeMesh writes the level 0 triangulation, coarse levels hold unordered node sets
func writeMesh(dir string, s *surface.Surface) (err error) {
	if err = os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "creating %s", dir)
	}
	path := filepath.Join(dir, s.ComponentName+".mesh")
	if err = s.Grids[0].WriteMeshFile(path); err != nil {
		return
	}
	klog.V(2).Infof("wrote %s", path)
	return
}
