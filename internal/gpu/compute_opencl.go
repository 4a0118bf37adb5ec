//go:build opencl

package gpu

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"unsafe"

	"gridcaster/internal/config"
	"gridcaster/internal/graphics"
	"gridcaster/internal/raycast"
	"gridcaster/internal/world"

	"github.com/jgillich/go-opencl/cl"
)

// Available reports whether this build carries the OpenCL backend.
const Available = true

// ComputeBackend runs the plane and wall passes as OpenCL kernels. The map
// and tile textures are uploaded once at creation; frame parameters and the
// colour+depth buffers move every frame.
type ComputeBackend struct {
	context     *cl.Context
	queue       *cl.CommandQueue
	program     *cl.Program
	planeKernel *cl.Kernel
	wallKernel  *cl.Kernel

	nodeBuf  *cl.MemObject
	texelBuf *cl.MemObject
	infoBuf  *cl.MemObject
	paramBuf *cl.MemObject
	colorBuf *cl.MemObject
	depthBuf *cl.MemObject

	gridW, gridH int
	texCount     int
	width        int
	height       int
	params       []float32
	deviceName   string
}

// NewComputeBackend picks the first GPU (else CPU) OpenCL device, builds the
// kernels and uploads the scene. Its signature matches raycast.ComputeFactory.
func NewComputeBackend(cfg config.RaycastConfig, grid world.GridMap, tiles graphics.SurfaceProvider) (raycast.RenderBackend, error) {
	device, err := pickDevice()
	if err != nil {
		return nil, err
	}

	b := &ComputeBackend{
		gridW:      grid.Width(),
		gridH:      grid.Height(),
		params:     make([]float32, ParamCount),
		deviceName: device.Name(),
	}
	if err := b.init(device, grid, tiles); err != nil {
		b.Close()
		return nil, err
	}
	if err := b.ensureFrameBuffers(cfg.XResolution, cfg.YResolution); err != nil {
		b.Close()
		return nil, err
	}

	log.Printf("[Compute] OpenCL backend on %s: map %dx%d, %d textures", b.deviceName, b.gridW, b.gridH, b.texCount)
	return b, nil
}

func pickDevice() (*cl.Device, error) {
	platforms, err := cl.GetPlatforms()
	if err != nil {
		msg := "querying OpenCL platforms"
		if strings.Contains(err.Error(), "-1001") {
			msg += ": no ICD loader reported any platforms"
		}
		return nil, fmt.Errorf("%s: %w", msg, err)
	}
	if len(platforms) == 0 {
		return nil, errors.New("no OpenCL platforms available")
	}
	for _, kind := range []cl.DeviceType{cl.DeviceTypeGPU, cl.DeviceTypeCPU} {
		for _, p := range platforms {
			devices, derr := p.GetDevices(kind)
			if derr != nil && derr != cl.ErrDeviceNotFound {
				continue
			}
			if len(devices) > 0 {
				return devices[0], nil
			}
		}
	}
	return nil, errors.New("no suitable OpenCL devices found")
}

func (b *ComputeBackend) init(device *cl.Device, grid world.GridMap, tiles graphics.SurfaceProvider) error {
	var err error
	if b.context, err = cl.CreateContext([]*cl.Device{device}); err != nil {
		return fmt.Errorf("creating OpenCL context: %w", err)
	}
	// In-order queue: the wall kernel sees the finished plane pass.
	if b.queue, err = b.context.CreateCommandQueue(device, 0); err != nil {
		return fmt.Errorf("creating OpenCL command queue: %w", err)
	}
	if b.program, err = b.context.CreateProgramWithSource([]string{kernelDefines(), kernelSource}); err != nil {
		return fmt.Errorf("creating OpenCL program: %w", err)
	}
	if err := b.program.BuildProgram([]*cl.Device{device}, ""); err != nil {
		if buildErr, ok := err.(cl.BuildError); ok {
			return fmt.Errorf("building OpenCL program: %s", string(buildErr))
		}
		return fmt.Errorf("building OpenCL program: %w", err)
	}
	if b.planeKernel, err = b.program.CreateKernel("planes"); err != nil {
		return fmt.Errorf("creating plane kernel: %w", err)
	}
	if b.wallKernel, err = b.program.CreateKernel("walls"); err != nil {
		return fmt.Errorf("creating wall kernel: %w", err)
	}

	nodes := PackGrid(grid)
	if len(nodes) == 0 {
		nodes = make([]int32, NodeStride)
	}
	if b.nodeBuf, err = b.upload(unsafe.Pointer(&nodes[0]), len(nodes)*4); err != nil {
		return fmt.Errorf("uploading grid: %w", err)
	}

	tex := PackTextures(tiles)
	b.texCount = tex.Count
	if b.texelBuf, err = b.upload(unsafe.Pointer(&tex.Texels[0]), len(tex.Texels)*4); err != nil {
		return fmt.Errorf("uploading texels: %w", err)
	}
	if b.infoBuf, err = b.upload(unsafe.Pointer(&tex.Info[0]), len(tex.Info)*4); err != nil {
		return fmt.Errorf("uploading texture table: %w", err)
	}
	if b.paramBuf, err = b.context.CreateEmptyBuffer(cl.MemReadOnly, ParamCount*4); err != nil {
		return fmt.Errorf("allocating parameter buffer: %w", err)
	}
	return nil
}

func (b *ComputeBackend) upload(ptr unsafe.Pointer, size int) (*cl.MemObject, error) {
	buf, err := b.context.CreateEmptyBuffer(cl.MemReadOnly, size)
	if err != nil {
		return nil, err
	}
	if _, err := b.queue.EnqueueWriteBuffer(buf, true, 0, size, ptr, nil); err != nil {
		buf.Release()
		return nil, err
	}
	return buf, nil
}

// ensureFrameBuffers reallocates the colour and depth buffers when the
// resolution changes.
func (b *ComputeBackend) ensureFrameBuffers(width, height int) error {
	if width == b.width && height == b.height && b.colorBuf != nil {
		return nil
	}
	release(&b.colorBuf)
	release(&b.depthBuf)

	size := width * height * 4
	var err error
	if b.colorBuf, err = b.context.CreateEmptyBuffer(cl.MemReadWrite, size); err != nil {
		return fmt.Errorf("allocating colour buffer: %w", err)
	}
	if b.depthBuf, err = b.context.CreateEmptyBuffer(cl.MemReadWrite, size); err != nil {
		return fmt.Errorf("allocating depth buffer: %w", err)
	}
	b.width, b.height = width, height
	return nil
}

func (b *ComputeBackend) Name() string { return "compute" }

// DeviceName returns the OpenCL device the kernels run on.
func (b *ComputeBackend) DeviceName() string { return b.deviceName }

func (b *ComputeBackend) Render(job *raycast.Job) error {
	f := &job.Frame
	if err := b.ensureFrameBuffers(f.Width, f.Height); err != nil {
		return err
	}

	PackParams(b.params, f, job.Config)
	if _, err := b.queue.EnqueueWriteBufferFloat32(b.paramBuf, false, 0, b.params, nil); err != nil {
		return fmt.Errorf("writing frame parameters: %w", err)
	}

	if err := b.planeKernel.SetArgs(
		int32(f.Width),
		int32(f.Height),
		int32(b.gridW),
		int32(b.gridH),
		int32(b.texCount),
		b.paramBuf,
		b.nodeBuf,
		b.texelBuf,
		b.infoBuf,
		b.colorBuf,
		b.depthBuf,
	); err != nil {
		return fmt.Errorf("setting plane kernel arguments: %w", err)
	}
	if err := b.wallKernel.SetArgs(
		int32(f.Width),
		int32(f.Height),
		int32(b.gridW),
		int32(b.gridH),
		int32(b.texCount),
		int32(job.Config.RayEncounterLimit),
		b.paramBuf,
		b.nodeBuf,
		b.texelBuf,
		b.infoBuf,
		b.colorBuf,
		b.depthBuf,
	); err != nil {
		return fmt.Errorf("setting wall kernel arguments: %w", err)
	}

	if _, err := b.queue.EnqueueNDRangeKernel(b.planeKernel, nil, []int{f.Width * f.Height}, nil, nil); err != nil {
		return fmt.Errorf("enqueueing plane kernel: %w", err)
	}
	if _, err := b.queue.EnqueueNDRangeKernel(b.wallKernel, nil, []int{f.Width}, nil, nil); err != nil {
		return fmt.Errorf("enqueueing wall kernel: %w", err)
	}

	buf := job.Buffer
	if _, err := b.queue.EnqueueReadBuffer(b.colorBuf, true, 0, len(buf.Color)*4, unsafe.Pointer(&buf.Color[0]), nil); err != nil {
		return fmt.Errorf("reading colour buffer: %w", err)
	}
	if _, err := b.queue.EnqueueReadBufferFloat32(b.depthBuf, true, 0, buf.Depth, nil); err != nil {
		return fmt.Errorf("reading depth buffer: %w", err)
	}
	return nil
}

func release(m **cl.MemObject) {
	if *m != nil {
		(*m).Release()
		*m = nil
	}
}

func (b *ComputeBackend) Close() {
	for _, m := range []**cl.MemObject{&b.depthBuf, &b.colorBuf, &b.paramBuf, &b.infoBuf, &b.texelBuf, &b.nodeBuf} {
		release(m)
	}
	if b.wallKernel != nil {
		b.wallKernel.Release()
		b.wallKernel = nil
	}
	if b.planeKernel != nil {
		b.planeKernel.Release()
		b.planeKernel = nil
	}
	if b.program != nil {
		b.program.Release()
		b.program = nil
	}
	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.context != nil {
		b.context.Release()
		b.context = nil
	}
}
