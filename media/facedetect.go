package media

import (
	"fmt"
	"image"
	"log"

	"gocv.io/x/gocv"
)

// FaceDetector counts faces in uploaded photos using an OpenCV DNN model.
// When no model is configured it stays disabled and every call reports zero
// faces without error.
type FaceDetector struct {
	net     gocv.Net
	enabled bool

	inputSizeW    int
	inputSizeH    int
	scaleFactor   float64
	meanVal       gocv.Scalar
	confThreshold float32
}

// NewFaceDetector loads the DNN model. Empty paths disable detection.
func NewFaceDetector(configPath, modelPath string) *FaceDetector {
	if configPath == "" || modelPath == "" {
		log.Println("facedetect: no model configured, face counting disabled")
		return &FaceDetector{}
	}

	net := gocv.ReadNet(modelPath, configPath)
	if net.Empty() {
		log.Printf("facedetect: ERROR loading network model: config=%s, model=%s", configPath, modelPath)
		return &FaceDetector{}
	}
	net.SetPreferableBackend(gocv.NetBackendDefault)
	net.SetPreferableTarget(gocv.NetTargetCPU)
	log.Println("facedetect: loaded face detection model")

	return &FaceDetector{
		net:           net,
		enabled:       true,
		inputSizeW:    300,
		inputSizeH:    300,
		scaleFactor:   1.0,
		meanVal:       gocv.NewScalar(104.0, 177.0, 123.0, 0),
		confThreshold: 0.5,
	}
}

// Enabled reports whether a model was loaded.
func (d *FaceDetector) Enabled() bool {
	return d != nil && d.enabled
}

// Close releases the network.
func (d *FaceDetector) Close() {
	if d.Enabled() {
		d.net.Close()
		d.enabled = false
	}
}

// CountFaces returns how many faces the model finds in the image file.
func (d *FaceDetector) CountFaces(imagePath string) (int, error) {
	if !d.Enabled() {
		return 0, nil
	}

	img := gocv.IMRead(imagePath, gocv.IMReadColor)
	if img.Empty() {
		return 0, fmt.Errorf("facedetect: failed to read image %s", imagePath)
	}
	defer img.Close()

	blob := gocv.BlobFromImage(img, d.scaleFactor, image.Pt(d.inputSizeW, d.inputSizeH), d.meanVal, false, false)
	defer blob.Close()

	d.net.SetInput(blob, "")
	detections := d.net.Forward("")
	defer detections.Close()

	sizes := detections.Size()
	if len(sizes) < 4 {
		return 0, fmt.Errorf("facedetect: unexpected output matrix dimensions: %v", sizes)
	}
	numDetections := sizes[2]
	if numDetections == 0 {
		return 0, nil
	}

	data := detections.Reshape(1, numDetections)
	defer data.Close()

	count := 0
	for i := 0; i < numDetections; i++ {
		if data.GetFloatAt(i, 2) > d.confThreshold {
			count++
		}
	}
	return count, nil
}
