package ops

import "fmt"

// Operation categories, in the order the backend reports them.
const (
	CategoryBasic         = "basic"
	CategoryAdvanced      = "advanced"
	CategoryMorphological = "morphological"
	CategorySegmentation  = "segmentation"
)

// Categories returns the category names in display order.
func Categories() []string {
	return []string{CategoryBasic, CategoryAdvanced, CategoryMorphological, CategorySegmentation}
}

var kernelShape = Enum("kernel_shape", "Kernel shape", "rect",
	Option{"rect", "Rectangle"},
	Option{"ellipse", "Ellipse"},
	Option{"cross", "Cross"},
)

func morph(name, title, description string, defaultSize int, withIterations bool) Operation {
	params := []Param{OddInt("kernel_size", "Kernel size", defaultSize, 1, 31), kernelShape}
	if withIterations {
		params = append(params, Int("iterations", "Iterations", 1, 1, 10))
	}
	return Operation{Name: name, Title: title, Category: CategoryMorphological, Description: description, Params: params}
}

// catalog lists every operation the backend registers, with its defaults.
var catalog = []Operation{
	{Name: "grayscale", Title: "Grayscale", Category: CategoryBasic,
		Description: "Convert an image to grayscale."},
	{Name: "negative", Title: "Negative", Category: CategoryBasic,
		Description: "Create a negative of the image."},
	{Name: "threshold", Title: "Threshold", Category: CategoryBasic,
		Description: "Apply thresholding to an image.",
		Params: []Param{
			Int("threshold_value", "Threshold", 127, 0, 255),
			Int("max_value", "Max value", 255, 0, 255),
			Enum("threshold_type", "Type", 0,
				Option{0, "Binary"},
				Option{1, "Binary inverted"},
				Option{2, "Truncate"},
				Option{3, "To zero"},
				Option{4, "To zero inverted"},
			),
		}},
	{Name: "adjust_brightness", Title: "Brightness", Category: CategoryBasic,
		Description: "Adjust image brightness by adding a constant value.",
		Params:      []Param{Int("beta", "Beta", 50, -255, 255)}},
	{Name: "adjust_contrast", Title: "Contrast", Category: CategoryBasic,
		Description: "Adjust image contrast by multiplying by a constant value.",
		Params:      []Param{Number("alpha", "Alpha", 1.5, 0, 3, 0.1)}},
	{Name: "gaussian_blur", Title: "Gaussian Blur", Category: CategoryBasic,
		Description: "Apply Gaussian blur to an image.",
		Params: []Param{
			OddInt("kernel_size", "Kernel size", 5, 1, 31),
			Number("sigma_x", "Sigma X", 0, 0, 20, 0.5),
		}},
	{Name: "median_blur", Title: "Median Blur", Category: CategoryBasic,
		Description: "Apply median blur to an image.",
		Params:      []Param{OddInt("kernel_size", "Kernel size", 5, 1, 31)}},
	{Name: "bilateral_filter", Title: "Bilateral Filter", Category: CategoryBasic,
		Description: "Apply bilateral filter to an image.",
		Params: []Param{
			Int("d", "Diameter", 9, 1, 25),
			Int("sigma_color", "Sigma color", 75, 1, 200),
			Int("sigma_space", "Sigma space", 75, 1, 200),
		}},
	{Name: "histogram_equalization", Title: "Histogram Equalization", Category: CategoryBasic,
		Description: "Apply histogram equalization to enhance image contrast."},
	{Name: "sharpen", Title: "Sharpen", Category: CategoryBasic,
		Description: "Sharpen an image using unsharp masking.",
		Params: []Param{
			OddInt("kernel_size", "Kernel size", 3, 1, 31),
			Number("strength", "Strength", 1.0, 0, 5, 0.1),
		}},

	{Name: "retinex", Title: "Retinex", Category: CategoryAdvanced,
		Description: "Apply Multi-Scale Retinex (MSR) algorithm for image enhancement.",
		Params:      []Param{Bool("dynamic", "Dynamic range", false)}},
	{Name: "clahe", Title: "CLAHE", Category: CategoryAdvanced,
		Description: "Apply Contrast Limited Adaptive Histogram Equalization (CLAHE).",
		Params: []Param{
			Number("clip_limit", "Clip limit", 2.0, 0.5, 10, 0.5),
			Int("tile_grid_size", "Tile grid size", 8, 2, 32),
		}},
	{Name: "fourier_transform", Title: "Fourier Transform", Category: CategoryAdvanced,
		Description: "Display the Fourier transform of an image."},
	{Name: "frequency_filter", Title: "Frequency Filter", Category: CategoryAdvanced,
		Description: "Apply frequency domain filtering (lowpass/highpass).",
		Params: []Param{
			Enum("filter_type", "Filter", "lowpass",
				Option{"lowpass", "Low pass"},
				Option{"highpass", "High pass"},
			),
			Int("cutoff_freq", "Cutoff", 30, 1, 200),
		}},

	morph("erosion", "Erosion", "Apply erosion morphological operation.", 5, true),
	morph("dilation", "Dilation", "Apply dilation morphological operation.", 5, true),
	morph("opening", "Opening", "Apply opening morphological operation (erosion followed by dilation).", 5, false),
	morph("closing", "Closing", "Apply closing morphological operation (dilation followed by erosion).", 5, false),
	morph("gradient", "Gradient", "Apply morphological gradient (difference between dilation and erosion).", 5, false),
	morph("top_hat", "Top Hat", "Apply top hat transform (difference between input and opening).", 9, false),
	morph("black_hat", "Black Hat", "Apply black hat transform (difference between closing and input).", 9, false),

	{Name: "canny_edge", Title: "Canny Edges", Category: CategorySegmentation,
		Description: "Apply Canny edge detection.",
		Params: []Param{
			Int("threshold1", "Low threshold", 100, 0, 500),
			Int("threshold2", "High threshold", 200, 0, 500),
			Enum("aperture_size", "Aperture", 3,
				Option{3, "3"},
				Option{5, "5"},
				Option{7, "7"},
			),
		}},
	{Name: "sobel_edge", Title: "Sobel Edges", Category: CategorySegmentation,
		Description: "Apply Sobel edge detection.",
		Params: []Param{
			Int("dx", "X order", 1, 0, 2),
			Int("dy", "Y order", 1, 0, 2),
			OddInt("ksize", "Kernel size", 3, 1, 7),
		}},
	{Name: "watershed", Title: "Watershed", Category: CategorySegmentation,
		Description: "Apply watershed segmentation algorithm."},
	{Name: "contour_detection", Title: "Contours", Category: CategorySegmentation,
		Description: "Detect and draw contours in an image.",
		Params: []Param{
			Int("threshold_min", "Min threshold", 127, 0, 255),
			Int("threshold_max", "Max threshold", 255, 0, 255),
		}},
	{Name: "orb_keypoints", Title: "ORB Keypoints", Category: CategorySegmentation,
		Description: "Detect and display ORB keypoints.",
		Params:      []Param{Int("n_features", "Features", 500, 10, 5000)}},
}

// Catalog returns every known operation in display order.
func Catalog() []Operation {
	out := make([]Operation, len(catalog))
	copy(out, catalog)
	return out
}

// ByCategory returns the operations of one category.
func ByCategory(category string) []Operation {
	var out []Operation
	for _, op := range catalog {
		if op.Category == category {
			out = append(out, op)
		}
	}
	return out
}

// Lookup finds an operation by its backend name.
func Lookup(name string) (Operation, error) {
	for _, op := range catalog {
		if op.Name == name {
			return op, nil
		}
	}
	return Operation{}, fmt.Errorf("%w: %s", ErrUnknownOperation, name)
}
