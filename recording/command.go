package recording

import "github.com/gogpu/rlgl"

// CommandType identifies the type of a command.
// Each command type corresponds to one Device or Pass call.
type CommandType uint8

const (
	// Resource commands
	CmdCreateBatchBuffers  CommandType = iota // Allocate batch slots
	CmdDestroyBatchBuffers                    // Release batch slots
	CmdUploadBatch                            // Write a slot's vertices
	CmdCreateTexture                          // Create a texture
	CmdUpdateTexture                          // Replace a texture region
	CmdSetTextureParams                       // Change sampling state
	CmdDestroyTexture                         // Release a texture
	CmdCreateDepthTexture                     // Create a depth texture
	CmdGenerateMipmaps                        // Build a mip chain
	CmdCreateRenderTarget                     // Create an offscreen target
	CmdDestroyRenderTarget                    // Release an offscreen target
	CmdCompileShader                          // Compile a program
	CmdDestroyShader                          // Release a program
	CmdSetUniform                             // Store a uniform value

	// Frame commands
	CmdClear       // Clear a target
	CmdBeginPass   // Start a flush
	CmdSetShader   // Bind a program with frame uniforms
	CmdBindTexture // Bind a texture
	CmdDrawArrays  // Non-indexed draw
	CmdDrawIndexed // Indexed quad draw
	CmdEndPass     // Submit a flush
	CmdReadPixels  // Read back a target
	CmdDebugMarker // Label the stream
)

// commandTypeNames maps CommandType values to their string representation.
var commandTypeNames = [...]string{
	CmdCreateBatchBuffers:  "CreateBatchBuffers",
	CmdDestroyBatchBuffers: "DestroyBatchBuffers",
	CmdUploadBatch:         "UploadBatch",
	CmdCreateTexture:       "CreateTexture",
	CmdUpdateTexture:       "UpdateTexture",
	CmdSetTextureParams:    "SetTextureParams",
	CmdDestroyTexture:      "DestroyTexture",
	CmdCreateDepthTexture:  "CreateDepthTexture",
	CmdGenerateMipmaps:     "GenerateMipmaps",
	CmdCreateRenderTarget:  "CreateRenderTarget",
	CmdDestroyRenderTarget: "DestroyRenderTarget",
	CmdCompileShader:       "CompileShader",
	CmdDestroyShader:       "DestroyShader",
	CmdSetUniform:          "SetUniform",
	CmdClear:               "Clear",
	CmdBeginPass:           "BeginPass",
	CmdSetShader:           "SetShader",
	CmdBindTexture:         "BindTexture",
	CmdDrawArrays:          "DrawArrays",
	CmdDrawIndexed:         "DrawIndexed",
	CmdEndPass:             "EndPass",
	CmdReadPixels:          "ReadPixels",
	CmdDebugMarker:         "DebugMarker",
}

// String returns the string representation of a CommandType.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// Command is the interface implemented by all command types.
type Command interface {
	// Type returns the CommandType for this command.
	Type() CommandType
}

// --------------------------------------------------------------------------
// Resource Commands
// --------------------------------------------------------------------------

// CreateBatchBuffersCommand allocates the batch slots.
type CreateBatchBuffersCommand struct {
	Slots          int
	VertexCapacity int
	Indices        []uint16
}

// Type implements Command.
func (CreateBatchBuffersCommand) Type() CommandType { return CmdCreateBatchBuffers }

// DestroyBatchBuffersCommand releases the batch slots.
type DestroyBatchBuffersCommand struct{}

// Type implements Command.
func (DestroyBatchBuffersCommand) Type() CommandType { return CmdDestroyBatchBuffers }

// UploadBatchCommand writes the occupied prefix of a slot.
// Data holds copies of the uploaded streams.
type UploadBatchCommand struct {
	Slot int
	Data rlgl.BatchData
}

// Type implements Command.
func (UploadBatchCommand) Type() CommandType { return CmdUploadBatch }

// CreateTextureCommand creates a texture. Desc.Levels holds copies.
type CreateTextureCommand struct {
	ID   rlgl.TextureID
	Desc rlgl.TextureDesc
}

// Type implements Command.
func (CreateTextureCommand) Type() CommandType { return CmdCreateTexture }

// UpdateTextureCommand replaces a region of level 0.
type UpdateTextureCommand struct {
	ID     rlgl.TextureID
	Region rlgl.Rect
	Format rlgl.PixelFormat
	Data   []byte
}

// Type implements Command.
func (UpdateTextureCommand) Type() CommandType { return CmdUpdateTexture }

// SetTextureParamsCommand changes the sampling state of a texture.
type SetTextureParamsCommand struct {
	ID     rlgl.TextureID
	Params rlgl.TextureParameters
}

// Type implements Command.
func (SetTextureParamsCommand) Type() CommandType { return CmdSetTextureParams }

// DestroyTextureCommand releases a texture.
type DestroyTextureCommand struct {
	ID rlgl.TextureID
}

// Type implements Command.
func (DestroyTextureCommand) Type() CommandType { return CmdDestroyTexture }

// CreateDepthTextureCommand creates a depth texture.
type CreateDepthTextureCommand struct {
	ID            rlgl.TextureID
	Width, Height int
	Bits          int
}

// Type implements Command.
func (CreateDepthTextureCommand) Type() CommandType { return CmdCreateDepthTexture }

// GenerateMipmapsCommand builds the mip chain of a texture.
type GenerateMipmapsCommand struct {
	ID     rlgl.TextureID
	Levels int
}

// Type implements Command.
func (GenerateMipmapsCommand) Type() CommandType { return CmdGenerateMipmaps }

// CreateRenderTargetCommand creates an offscreen target.
type CreateRenderTargetCommand struct {
	ID   rlgl.RenderTargetID
	Desc rlgl.RenderTargetDesc
}

// Type implements Command.
func (CreateRenderTargetCommand) Type() CommandType { return CmdCreateRenderTarget }

// DestroyRenderTargetCommand releases an offscreen target.
type DestroyRenderTargetCommand struct {
	ID rlgl.RenderTargetID
}

// Type implements Command.
func (DestroyRenderTargetCommand) Type() CommandType { return CmdDestroyRenderTarget }

// CompileShaderCommand compiles a program. Empty sources select the
// default stage.
type CompileShaderCommand struct {
	ID             rlgl.ShaderID
	VertexSource   string
	FragmentSource string
}

// Type implements Command.
func (CompileShaderCommand) Type() CommandType { return CmdCompileShader }

// DestroyShaderCommand releases a program.
type DestroyShaderCommand struct {
	ID rlgl.ShaderID
}

// Type implements Command.
func (DestroyShaderCommand) Type() CommandType { return CmdDestroyShader }

// SetUniformCommand stores an encoded uniform value.
type SetUniformCommand struct {
	Shader   rlgl.ShaderID
	Location int
	Data     []byte
}

// Type implements Command.
func (SetUniformCommand) Type() CommandType { return CmdSetUniform }

// --------------------------------------------------------------------------
// Frame Commands
// --------------------------------------------------------------------------

// ClearCommand clears a target.
type ClearCommand struct {
	Target rlgl.RenderTargetID
	Color  [4]float32
}

// Type implements Command.
func (ClearCommand) Type() CommandType { return CmdClear }

// BeginPassCommand starts a flush.
type BeginPassCommand struct {
	Desc rlgl.PassDesc
}

// Type implements Command.
func (BeginPassCommand) Type() CommandType { return CmdBeginPass }

// SetShaderCommand binds a program with the frame uniforms.
type SetShaderCommand struct {
	ID       rlgl.ShaderID
	Uniforms rlgl.FrameUniforms
}

// Type implements Command.
func (SetShaderCommand) Type() CommandType { return CmdSetShader }

// BindTextureCommand binds a texture for following draws.
type BindTextureCommand struct {
	ID rlgl.TextureID
}

// Type implements Command.
func (BindTextureCommand) Type() CommandType { return CmdBindTexture }

// DrawArraysCommand draws Count vertices of Mode starting at First.
type DrawArraysCommand struct {
	Mode  rlgl.Mode
	First int
	Count int
}

// Type implements Command.
func (DrawArraysCommand) Type() CommandType { return CmdDrawArrays }

// DrawIndexedCommand draws Count quad indices starting at First.
type DrawIndexedCommand struct {
	First int
	Count int
}

// Type implements Command.
func (DrawIndexedCommand) Type() CommandType { return CmdDrawIndexed }

// EndPassCommand submits a flush.
type EndPassCommand struct{}

// Type implements Command.
func (EndPassCommand) Type() CommandType { return CmdEndPass }

// ReadPixelsCommand reads back a region of a target.
type ReadPixelsCommand struct {
	Target rlgl.RenderTargetID
	Region rlgl.Rect
}

// Type implements Command.
func (ReadPixelsCommand) Type() CommandType { return CmdReadPixels }

// DebugMarkerCommand labels the command stream.
type DebugMarkerCommand struct {
	Text string
}

// Type implements Command.
func (DebugMarkerCommand) Type() CommandType { return CmdDebugMarker }
