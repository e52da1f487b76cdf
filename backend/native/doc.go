// Package native implements rlgl.Device on top of gogpu/wgpu hal.
//
// The device renders into an offscreen RGBA8 color target with a
// depth-stencil attachment. Each flush of an rlgl.Context becomes one render
// pass submitted on the queue; readback copies the target into a staging
// buffer.
//
// Programs are WGSL modules compiled to SPIR-V with naga. A custom program
// keeps the bind group layout of the default one:
//
//	@group(0) @binding(0) var<uniform> uniforms: Uniforms;
//	@group(0) @binding(1) var texture0: texture_2d<f32>;
//	@group(0) @binding(2) var texture0Sampler: sampler;
//
// and reads vertexPosition, vertexTexCoord and vertexColor at locations 0, 1
// and 3. The members of struct Uniforms become the uniform locations of the
// program, in declaration order.
//
// Importing the package registers the "native" device, created on a Vulkan
// adapter:
//
//	import _ "github.com/gogpu/rlgl/backend/native"
//
//	dev, err := rlgl.NewDevice("native", 800, 450)
//
// Build with the nogpu tag to leave the device out.
package native
