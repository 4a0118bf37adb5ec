//go:build opencl

package gpu

import (
	"fmt"
	"strings"

	"gridcaster/internal/raycast"
	"gridcaster/internal/world"
)

// kernelDefines emits the buffer layouts shared with pack.go so the kernel
// source cannot drift from the host packing.
func kernelDefines() string {
	var b strings.Builder
	def := func(name string, v int) { fmt.Fprintf(&b, "#define %s %d\n", name, v) }

	def("NODE_STRIDE", NodeStride)
	def("N_FLOOR", nodeFloorInner)
	def("N_CEIL", nodeCeilingInner)
	def("N_WALL", nodeWall)
	def("N_WALL_UP", nodeWallUp)
	def("N_WALL_DOWN", nodeWallDown)
	def("N_EXT_UP", nodeExtendUp)
	def("N_EXT_DOWN", nodeExtendDown)
	def("N_FLAGS", nodeDrawFlags)
	def("NO_TEXTURE", world.NoTexture)

	def("FACE_NORTH", int(world.FaceNorth))
	def("FACE_EAST", int(world.FaceEast))
	def("FACE_SOUTH", int(world.FaceSouth))
	def("FACE_WEST", int(world.FaceWest))

	def("P_CAMX", paramCamX)
	def("P_CAMY", paramCamY)
	def("P_FWDX", paramForwardX)
	def("P_FWDY", paramForwardY)
	def("P_LEFTX", paramLeftX)
	def("P_LEFTY", paramLeftY)
	def("P_SPX", paramSpacingX)
	def("P_SPY", paramSpacingY)
	def("P_HORIZON", paramHorizon)
	def("P_VIEW", paramViewHeight)
	def("P_FAR", paramFarClip)
	def("P_INNER", paramInnerHeight)
	def("P_OUTER", paramOuterHeight)
	def("P_SEAM_TOL", paramSeamTolerance)
	def("P_FOG_MIN", paramFogMin)
	def("P_FOG", paramFogEnabled)
	def("P_HIGHLIGHT", paramHighlightSeams)

	def("TEX_STRIDE", TexInfoStride)
	def("SEAM_ROWS", 2)
	fmt.Fprintf(&b, "#define SEAM_COLOR %#xu\n", raycast.SeamHighlightColor)
	return b.String()
}

const kernelSource = `
#define FAR_DEPTH 3.402823466e+38f
#define MIN_WALL_DEPTH 1e-4f
#define DIR_EPS 1e-9f
#define EYE_HEIGHT 0.5f

typedef struct {
    int grid_w;
    int grid_h;
    int tex_count;
    __global const int* nodes;
    __global const uint* texels;
    __global const int* info;
} scene_t;

int tex_slot(const scene_t* s, int id) {
    return (id < 0 || id >= s->tex_count) ? s->tex_count : id;
}

uint texel(const scene_t* s, int slot, int x, int y) {
    int off = s->info[slot * TEX_STRIDE];
    int w = s->info[slot * TEX_STRIDE + 1];
    int h = s->info[slot * TEX_STRIDE + 2];
    x %= w;
    if (x < 0) x += w;
    y %= h;
    if (y < 0) y += h;
    return s->texels[off + y * w + x];
}

uint sample(const scene_t* s, int id, float u, float v) {
    int slot = tex_slot(s, id);
    int w = s->info[slot * TEX_STRIDE + 1];
    int h = s->info[slot * TEX_STRIDE + 2];
    int tx = min((int)((u - floor(u)) * (float)w), w - 1);
    int ty = min((int)((v - floor(v)) * (float)h), h - 1);
    return texel(s, slot, tx, ty);
}

__global const int* node_at(const scene_t* s, int x, int y) {
    if (x < 0 || y < 0 || x >= s->grid_w || y >= s->grid_h) {
        return 0;
    }
    return s->nodes + (y * s->grid_w + x) * NODE_STRIDE;
}

uint shade(uint c, float depth, __global const float* p) {
    if (p[P_FOG] == 0.0f) {
        return c;
    }
    float b = fmax(1.0f - depth / p[P_FAR], p[P_FOG_MIN]);
    if (b >= 1.0f) {
        return c;
    }
    uint r = (uint)((float)(c & 0xffu) * b);
    uint g = (uint)((float)((c >> 8) & 0xffu) * b);
    uint bl = (uint)((float)((c >> 16) & 0xffu) * b);
    return r | (g << 8) | (bl << 16) | (c & 0xff000000u);
}

float screen_y(__global const float* p, float z, float depth) {
    return p[P_HORIZON] - (z - EYE_HEIGHT) * p[P_VIEW] / depth;
}

__kernel void planes(
    const int width,
    const int height,
    const int grid_w,
    const int grid_h,
    const int tex_count,
    __global const float* p,
    __global const int* nodes,
    __global const uint* texels,
    __global const int* info,
    __global uint* color,
    __global float* depth)
{
    int gid = get_global_id(0);
    if (gid >= width * height) {
        return;
    }
    color[gid] = 0u;
    depth[gid] = FAR_DEPTH;

    scene_t s = {grid_w, grid_h, tex_count, nodes, texels, info};
    int x = gid % width;
    int y = gid / width;
    float row_pitch = (float)y + 0.5f - p[P_HORIZON];
    if (fabs(row_pitch) < 1e-9f) {
        return;
    }
    int floor_row = row_pitch > 0.0f;
    float t = (float)x + 0.5f;

    for (int l = 0; l < 2; l++) {
        float h = l == 0 ? p[P_INNER] : p[P_OUTER];
        float d = h * p[P_VIEW] / fabs(row_pitch);
        if (d > p[P_FAR]) {
            continue;
        }
        float px = p[P_CAMX] + (p[P_LEFTX] + p[P_SPX] * t) * d;
        float py = p[P_CAMY] + (p[P_LEFTY] + p[P_SPY] * t) * d;
        __global const int* n = node_at(&s, (int)floor(px), (int)floor(py));
        if (n == 0) {
            continue;
        }
        int id = floor_row ? n[N_FLOOR + l] : n[N_CEIL + l];
        if (id == NO_TEXTURE) {
            continue;
        }
        uint c = sample(&s, id, px, py);
        if ((c >> 24) == 0u) {
            continue;
        }
        color[gid] = shade(c, d, p);
        depth[gid] = d;
        return;
    }
}

int first_texture(int a, int b, int c, int d) {
    if (a != NO_TEXTURE) return a;
    if (b != NO_TEXTURE) return b;
    if (c != NO_TEXTURE) return c;
    return d;
}

int strip_texture(__global const int* n, int k) {
    if (k == 0) {
        return n[N_WALL];
    }
    if (k < 0) {
        return first_texture(n[N_WALL_DOWN], n[N_FLOOR], n[N_FLOOR + 1], n[N_WALL]);
    }
    return first_texture(n[N_WALL_UP], n[N_CEIL], n[N_CEIL + 1], n[N_WALL]);
}

int solid(__global const int* n) {
    int has_ceiling = n[N_CEIL] != NO_TEXTURE || n[N_CEIL + 1] != NO_TEXTURE;
    int has_floor = n[N_FLOOR] != NO_TEXTURE || n[N_FLOOR + 1] != NO_TEXTURE;
    return n[N_WALL] != NO_TEXTURE ||
        (n[N_EXT_UP] > 0 && has_ceiling) ||
        (n[N_EXT_DOWN] > 0 && has_floor);
}

int occluded(__global const float* depth, int x, int width, int height, float d) {
    for (int y = 0; y < height; y++) {
        if (depth[y * width + x] > d) {
            return 0;
        }
    }
    return 1;
}

void draw_strip(const scene_t* s, __global const float* p, int x, int width, int height,
    int k, int id, float u, float d, __global uint* color, __global float* depth)
{
    float y_top = screen_y(p, (float)k + 1.0f, d);
    float y_bot = screen_y(p, (float)k, d);
    int top = clamp((int)ceil(y_top - 0.5f), 0, height);
    int bottom = clamp((int)ceil(y_bot - 0.5f), 0, height);
    if (top >= bottom) {
        return;
    }
    int slot = tex_slot(s, id);
    int w = s->info[slot * TEX_STRIDE + 1];
    int h = s->info[slot * TEX_STRIDE + 2];
    int tx = min((int)(u * (float)w), w - 1);
    float span = y_bot - y_top;
    for (int y = top; y < bottom; y++) {
        float v = ((float)y + 0.5f - y_top) / span;
        int ty = clamp((int)(v * (float)h), 0, h - 1);
        uint c = texel(s, slot, tx, ty);
        if ((c >> 24) == 0u) {
            continue;
        }
        int i = y * width + x;
        if (d < depth[i]) {
            color[i] = shade(c, d, p);
            depth[i] = d;
        }
    }
}

int at_depth(__global const float* depth, int i, float d, float tol) {
    return fabs(depth[i] - d) <= tol;
}

void correct_seam(__global const float* p, int x, int width, int height, float z, float d,
    __global uint* color, __global float* depth)
{
    float tol = p[P_SEAM_TOL];
    int boundary = (int)round(screen_y(p, z, d));
    int lo = max(boundary - SEAM_ROWS - 1, 0);
    int hi = min(boundary + SEAM_ROWS + 1, height);
    if (hi - lo < 3) {
        return;
    }
    for (int y = lo + 1; y < hi - 1; y++) {
        int i = y * width + x;
        if (depth[i] <= d + tol) {
            continue;
        }
        int above = -1;
        int below = -1;
        for (int a = y - 1; a >= lo; a--) {
            if (at_depth(depth, a * width + x, d, tol)) {
                above = a;
                break;
            }
        }
        for (int b = y + 1; b < hi; b++) {
            if (at_depth(depth, b * width + x, d, tol)) {
                below = b;
                break;
            }
        }
        if (above < 0 || below < 0 || below - above - 1 > SEAM_ROWS) {
            continue;
        }
        uint c = SEAM_COLOR;
        if (p[P_HIGHLIGHT] == 0.0f) {
            int src = (below - y < y - above) ? below : above;
            c = color[src * width + x];
        }
        color[i] = c;
        depth[i] = d;
    }
}

float nonzero(float v) {
    if (v >= 0.0f && v < DIR_EPS) return DIR_EPS;
    if (v < 0.0f && v > -DIR_EPS) return -DIR_EPS;
    return v;
}

__kernel void walls(
    const int width,
    const int height,
    const int grid_w,
    const int grid_h,
    const int tex_count,
    const int encounter_limit,
    __global const float* p,
    __global const int* nodes,
    __global const uint* texels,
    __global const int* info,
    __global uint* color,
    __global float* depth)
{
    int x = get_global_id(0);
    if (x >= width) {
        return;
    }
    scene_t s = {grid_w, grid_h, tex_count, nodes, texels, info};

    float t = (float)x + 0.5f;
    float rx = p[P_LEFTX] + p[P_SPX] * t;
    float ry = p[P_LEFTY] + p[P_SPY] * t;
    float len = sqrt(rx * rx + ry * ry);
    float dx = rx / len;
    float dy = ry / len;
    float cosine = dx * p[P_FWDX] + dy * p[P_FWDY];
    float max_dist = p[P_FAR] / cosine;
    dx = nonzero(dx);
    dy = nonzero(dy);

    float ox = p[P_CAMX];
    float oy = p[P_CAMY];
    int cell_x = (int)floor(ox);
    int cell_y = (int)floor(oy);
    float delta_x = sqrt(1.0f + (dy * dy) / (dx * dx));
    float delta_y = sqrt(1.0f + (dx * dx) / (dy * dy));
    int step_x = dx < 0.0f ? -1 : 1;
    int step_y = dy < 0.0f ? -1 : 1;
    float side_x = dx < 0.0f ? (ox - (float)cell_x) * delta_x : ((float)cell_x + 1.0f - ox) * delta_x;
    float side_y = dy < 0.0f ? (oy - (float)cell_y) * delta_y : ((float)cell_y + 1.0f - oy) * delta_y;
    int entered = node_at(&s, cell_x, cell_y) != 0;

    int hits = 0;
    while (hits < encounter_limit) {
        float dist;
        int vertical;
        if (side_x < side_y) {
            dist = side_x;
            side_x += delta_x;
            cell_x += step_x;
            vertical = 1;
        } else {
            dist = side_y;
            side_y += delta_y;
            cell_y += step_y;
            vertical = 0;
        }
        if (dist > max_dist) {
            return;
        }

        __global const int* n = node_at(&s, cell_x, cell_y);
        if (n == 0) {
            if (entered) {
                return;
            }
            continue;
        }
        entered = 1;
        if (!solid(n)) {
            continue;
        }
        hits++;

        float hx = ox + dx * dist;
        float hy = oy + dy * dist;
        float d = fmax((hx - ox) * p[P_FWDX] + (hy - oy) * p[P_FWDY], MIN_WALL_DEPTH);
        if (d > p[P_FAR]) {
            return;
        }

        int face = vertical ? (step_x > 0 ? FACE_WEST : FACE_EAST) : (step_y > 0 ? FACE_NORTH : FACE_SOUTH);
        int flags = n[N_FLAGS];
        if (flags != 0 && (flags & face) == 0) {
            continue;
        }
        if (occluded(depth, x, width, height, d)) {
            return;
        }

        float u;
        if (vertical) {
            u = hy - floor(hy);
            if (dx > 0.0f) u = 1.0f - u;
        } else {
            u = hx - floor(hx);
            if (dy < 0.0f) u = 1.0f - u;
        }

        // Only strips that can reach the screen at this depth.
        int down = n[N_EXT_DOWN];
        float z_bottom = EYE_HEIGHT - ((float)height - p[P_HORIZON]) * d / p[P_VIEW];
        float z_top = EYE_HEIGHT + p[P_HORIZON] * d / p[P_VIEW];
        int lo = (int)fmax(floor(z_bottom) - 1.0f, (float)(-down));
        int hi = (int)fmin(ceil(z_top), (float)n[N_EXT_UP]);
        int prev = lo > -down ? strip_texture(n, lo - 1) : NO_TEXTURE;
        for (int k = lo; k <= hi; k++) {
            int id = strip_texture(n, k);
            if (id != NO_TEXTURE) {
                draw_strip(&s, p, x, width, height, k, id, u, d, color, depth);
            }
            if (k > -down && id != NO_TEXTURE && prev != NO_TEXTURE && id != prev) {
                correct_seam(p, x, width, height, (float)k, d, color, depth);
            }
            prev = id;
        }
    }
}
`
